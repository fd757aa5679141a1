package server

import (
	"socialconnect/internal/models"
	"socialconnect/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetMe(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PATCH /api/users/me. Accepts JSON, or multipart
// form data when an avatar is uploaded.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	in := service.UpdateProfileInput{UserID: currentUserID(c)}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		setFromForm := func(dst **string, field string) {
			if values, ok := form.Value[field]; ok && len(values) > 0 {
				*dst = &values[0]
			}
		}
		setFromForm(&in.Bio, "bio")
		setFromForm(&in.Website, "website")
		setFromForm(&in.Location, "location")
		setFromForm(&in.Privacy, "privacy")

		avatar, err := readFormImage(c, "avatar")
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest, err)
		}
		in.Avatar = avatar
	} else {
		var req struct {
			Bio      *string `json:"bio"`
			Website  *string `json:"website"`
			Location *string `json:"location"`
			Privacy  *string `json:"privacy"`
		}
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
		in.Bio = req.Bio
		in.Website = req.Website
		in.Location = req.Location
		in.Privacy = req.Privacy
	}

	profile, err := s.userService.UpdateProfile(c.UserContext(), in)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(profile)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserProfile(c.UserContext(), optionalUserID(c), id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(user)
}

// SearchUsers handles GET /api/users/?q=
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	page := parsePagination(c)

	results, total, err := s.userService.SearchUsers(c.UserContext(), service.SearchUsersInput{
		RequesterID: optionalUserID(c),
		Query:       c.Query("q"),
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(paginatedResponse(results, total, page))
}

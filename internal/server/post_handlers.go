package server

import (
	"io"
	"mime/multipart"

	"socialconnect/internal/models"
	"socialconnect/internal/service"

	"github.com/gofiber/fiber/v2"
)

// readFormImage reads an optional multipart file field into memory. A
// missing field is not an error; the caller gets nil bytes.
func readFormImage(c *fiber.Ctx, field string) ([]byte, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	return readMultipartFile(file)
}

func readMultipartFile(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, models.NewValidationError("Unable to read uploaded file")
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, models.NewValidationError("Unable to read uploaded file")
	}
	return content, nil
}

// CreatePost handles POST /api/posts. Accepts JSON, or multipart form data
// when the post carries an image.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	in := service.CreatePostInput{UserID: userID}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		in.Content = c.FormValue("content")
		in.Category = c.FormValue("category")
		image, err := readFormImage(c, "image")
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest, err)
		}
		in.Image = image
	} else {
		var req struct {
			Content  string `json:"content"`
			Category string `json:"category"`
		}
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
		in.Content = req.Content
		in.Category = req.Category
	}

	post, err := s.postService.CreatePost(c.UserContext(), in)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// ListPosts handles GET /api/posts
func (s *Server) ListPosts(c *fiber.Ctx) error {
	page := parsePagination(c)

	authorID := c.QueryInt("author", 0)
	if authorID < 0 {
		authorID = 0
	}

	posts, total, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		RequesterID:  optionalUserID(c),
		Limit:        page.Limit,
		Offset:       page.Offset,
		Search:       c.Query("search"),
		Ordering:     c.Query("ordering"),
		AuthorID:     uint(authorID),
		Category:     c.Query("category"),
		ShowInactive: c.QueryBool("show_inactive", false),
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(paginatedResponse(posts, total, page))
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), optionalUserID(c), id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(post)
}

// UpdatePost handles PUT and PATCH /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	in := service.UpdatePostInput{UserID: currentUserID(c), PostID: id}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		if values, ok := form.Value["content"]; ok && len(values) > 0 {
			in.Content = &values[0]
		}
		if values, ok := form.Value["category"]; ok && len(values) > 0 {
			in.Category = &values[0]
		}
		image, err := readFormImage(c, "image")
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest, err)
		}
		in.Image = image
	} else {
		var req struct {
			Content  *string `json:"content"`
			Category *string `json:"category"`
		}
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
		in.Content = req.Content
		in.Category = req.Category
	}

	post, err := s.postService.UpdatePost(c.UserContext(), in)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), currentUserID(c), id); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

package seed

import (
	"context"
	"fmt"
	"log"

	"socialconnect/internal/models"

	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	NumUsers       int
	NumPosts       int
	MaxFollows     int // follow edges created per user
	MaxLikes       int // likes per post
	MaxComments    int // comments per post
	MaxDays        int // how far back post timestamps spread
	Clean          bool
	SkipFixedUsers bool // skip the demo and admin accounts
}

// DefaultOptions returns a medium-sized development data set.
func DefaultOptions() Options {
	return Options{
		NumUsers:    50,
		NumPosts:    200,
		MaxFollows:  8,
		MaxLikes:    10,
		MaxComments: 4,
		MaxDays:     90,
		Clean:       true,
	}
}

// Seed populates the database with generated users, posts, follows, likes
// and comments. All accounts share SeedPassword.
func Seed(ctx context.Context, db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.Clean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("clear existing data: %w", err)
		}
	}

	factory, err := NewFactory(db)
	if err != nil {
		return err
	}

	users, err := createUsers(ctx, factory, opts)
	if err != nil {
		return fmt.Errorf("create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	posts, err := createPosts(ctx, factory, users, opts)
	if err != nil {
		return fmt.Errorf("create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	if err := createFollowMesh(ctx, factory, users, opts); err != nil {
		return fmt.Errorf("create follows: %w", err)
	}
	if err := createEngagement(ctx, factory, users, posts, opts); err != nil {
		return fmt.Errorf("create engagement: %w", err)
	}

	log.Println("seeding complete")
	return nil
}

// clearData removes seeded rows in dependency order. Plain DELETEs keep this
// portable between Postgres and the sqlite test databases.
func clearData(db *gorm.DB) error {
	for _, table := range []string{"comments", "likes", "follows", "posts", "profiles", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(ctx context.Context, factory *Factory, opts Options) ([]*models.User, error) {
	users := make([]*models.User, 0, opts.NumUsers)

	// Fixed accounts so developers always have a known login.
	if !opts.SkipFixedUsers {
		demo, err := factory.CreateUser(ctx, 0, func(u *models.User) {
			u.Username = "demo"
			u.Email = "demo@example.com"
		})
		if err != nil {
			return nil, err
		}
		users = append(users, demo)

		admin, err := factory.CreateUser(ctx, 0, func(u *models.User) {
			u.Username = "admin"
			u.Email = "admin@example.com"
			u.IsAdmin = true
		})
		if err != nil {
			return nil, err
		}
		users = append(users, admin)
	}

	for i := len(users); i < opts.NumUsers; i++ {
		user, err := factory.CreateUser(ctx, i)
		if err != nil {
			return nil, err
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("created %d users...", i)
		}
	}

	for _, user := range users {
		if err := factory.FillProfile(ctx, user.ID); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func createPosts(ctx context.Context, factory *Factory, users []*models.User, opts Options) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, nil
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[factory.rand.Intn(len(users))]
		post, err := factory.CreatePost(ctx, author.ID, opts.MaxDays)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)

		if i > 0 && i%100 == 0 {
			log.Printf("created %d posts...", i)
		}
	}
	return posts, nil
}

// createFollowMesh gives every user a random set of accounts to follow.
// Duplicate picks are fine; the repository ignores existing edges.
func createFollowMesh(ctx context.Context, factory *Factory, users []*models.User, opts Options) error {
	if len(users) < 2 || opts.MaxFollows <= 0 {
		return nil
	}

	for _, follower := range users {
		for n := factory.rand.Intn(opts.MaxFollows + 1); n > 0; n-- {
			target := users[factory.rand.Intn(len(users))]
			if target.ID == follower.ID {
				continue
			}
			if err := factory.Follow(ctx, follower.ID, target.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func createEngagement(ctx context.Context, factory *Factory, users []*models.User, posts []*models.Post, opts Options) error {
	if len(users) == 0 {
		return nil
	}

	for _, post := range posts {
		if opts.MaxLikes > 0 {
			for n := factory.rand.Intn(opts.MaxLikes + 1); n > 0; n-- {
				user := users[factory.rand.Intn(len(users))]
				if err := factory.Like(ctx, user.ID, post.ID); err != nil {
					return err
				}
			}
		}
		if opts.MaxComments > 0 {
			for n := factory.rand.Intn(opts.MaxComments + 1); n > 0; n-- {
				user := users[factory.rand.Intn(len(users))]
				if _, err := factory.CreateComment(ctx, user.ID, post.ID); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

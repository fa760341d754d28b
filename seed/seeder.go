package seed

import (
	"context"
	"errors"
	"fmt"

	"Wildography/models"
	"Wildography/services"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options sizes the demo data set.
type Options struct {
	Users        int
	PostsPerUser int
	Seed         uint64
}

var troops = []string{"Reef Watchers", "Savanna Scouts", "Canopy Crew", "Tidepool Club"}

// Load fills an empty database with fake users, posts, comments, follows and
// pending follow requests. Every user's password is "password".
func Load(ctx context.Context, db *gorm.DB, opts Options, log *zap.Logger) error {
	if opts.Users < 2 {
		return errors.New("seed: need at least two users")
	}
	faker := gofakeit.New(opts.Seed)
	graph := services.NewSocialGraph(db, true)

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		handle := fmt.Sprintf("%s%d", faker.Username(), i)
		user := models.User{
			Name:     faker.Name(),
			Username: &handle,
			Email:    fmt.Sprintf("seed%d.%s", i, faker.Email()),
			Password: "password",
			Troop:    troops[faker.Number(0, len(troops)-1)],
		}
		user.Prepare()
		saved, err := user.SaveUser(db.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("seed user %d: %w", i, err)
		}
		users = append(users, saved)
	}

	tags := []string{models.TagMarine, models.TagWild}
	for _, owner := range users {
		for p := 0; p < opts.PostsPerUser; p++ {
			post := models.Post{
				Title:       faker.AnimalType() + " " + faker.Animal(),
				ImageURL:    faker.URL(),
				Description: faker.Paragraph(1, 2, 12, " "),
				Tag:         tags[faker.Number(0, len(tags)-1)],
			}
			post.Prepare()
			post.UserID = owner.ID
			saved, err := post.SavePost(db.WithContext(ctx))
			if err != nil {
				return fmt.Errorf("seed post: %w", err)
			}

			commenter := users[faker.Number(0, len(users)-1)]
			comment := models.PostComment{Author: commenter.Handle(), Text: faker.Paragraph(1, 1, 8, " ")}
			comment.Prepare()
			comment.PostID = saved.ID
			comment.UserID = commenter.ID
			if _, err := comment.SaveComment(db.WithContext(ctx)); err != nil {
				return fmt.Errorf("seed comment: %w", err)
			}
		}
	}

	follows, requests := 0, 0
	for i, actor := range users {
		target := users[(i+1)%len(users)]
		if err := graph.Follow(ctx, actor.ID, target.ID); err != nil && !errors.Is(err, services.ErrAlreadyFollowing) {
			return fmt.Errorf("seed follow: %w", err)
		}
		follows++

		requested := users[(i+2)%len(users)]
		if requested.ID == actor.ID {
			continue
		}
		if _, err := graph.RequestFollow(ctx, actor.ID, requested.ID); err != nil {
			return fmt.Errorf("seed follow request: %w", err)
		}
		requests++
	}

	log.Info("seed complete",
		zap.Int("users", len(users)),
		zap.Int("posts", len(users)*opts.PostsPerUser),
		zap.Int("follows", follows),
		zap.Int("follow_requests", requests),
	)
	return nil
}

package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"pulse/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seed populates the database with test data: users, posts with nested
// comment threads, and likes spread both inside and outside the trailing
// 24h leaderboard window so the ranking has something to show.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db, SeedOptions{})
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[r.Intn(len(users))]
		post, err := f.CreatePost(author)
		if err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("Created %d posts", len(posts))

	comments, err := seedCommentThreads(f, r, users, posts)
	if err != nil {
		return err
	}
	log.Printf("Created %d comments", len(comments))

	likeCount, err := seedLikes(f, r, users, posts, comments)
	if err != nil {
		return err
	}
	log.Printf("Created %d likes", likeCount)

	log.Println("Database seeding completed")
	return nil
}

// seedCommentThreads gives roughly half the posts a thread: a few root
// comments, each with a chance of nested replies up to three levels deep.
func seedCommentThreads(f *Factory, r *rand.Rand, users []*models.User, posts []*models.Post) ([]*models.Comment, error) {
	var all []*models.Comment
	for _, post := range posts {
		if r.Intn(2) == 0 {
			continue
		}

		roots := 1 + r.Intn(4)
		for i := 0; i < roots; i++ {
			root, err := f.CreateComment(users[r.Intn(len(users))], post)
			if err != nil {
				return nil, fmt.Errorf("failed to create comment: %w", err)
			}
			all = append(all, root)

			parent := root
			for depth := 0; depth < 3 && r.Intn(3) > 0; depth++ {
				parentID := parent.ID
				reply, err := f.CreateComment(users[r.Intn(len(users))], post, func(c *models.Comment) {
					c.ParentID = &parentID
				})
				if err != nil {
					return nil, fmt.Errorf("failed to create reply: %w", err)
				}
				all = append(all, reply)
				parent = reply
			}
		}
	}
	return all, nil
}

// seedLikes sprinkles likes over posts and comments. About a third of them
// are backdated past the 24h window so the leaderboard only picks up the
// recent majority.
func seedLikes(f *Factory, r *rand.Rand, users []*models.User, posts []*models.Post, comments []*models.Comment) (int, error) {
	count := 0
	like := func(user *models.User, target models.TargetRef) error {
		override := func(l *models.Like) {
			if r.Intn(3) == 0 {
				l.CreatedAt = time.Now().Add(-time.Duration(25+r.Intn(72)) * time.Hour)
			} else {
				l.CreatedAt = time.Now().Add(-time.Duration(r.Intn(23)) * time.Hour)
			}
		}
		if err := f.CreateLike(user, target, override); err != nil {
			return err
		}
		count++
		return nil
	}

	for _, post := range posts {
		for _, user := range pickUsers(r, users, r.Intn(6)) {
			if user.ID == post.UserID {
				continue
			}
			if err := like(user, models.TargetRef{Kind: models.TargetPost, ID: post.ID}); err != nil {
				return count, fmt.Errorf("failed to like post: %w", err)
			}
		}
	}

	for _, comment := range comments {
		for _, user := range pickUsers(r, users, r.Intn(3)) {
			if user.ID == comment.UserID {
				continue
			}
			if err := like(user, models.TargetRef{Kind: models.TargetComment, ID: comment.ID}); err != nil {
				return count, fmt.Errorf("failed to like comment: %w", err)
			}
		}
	}

	return count, nil
}

// pickUsers selects up to n distinct users at random.
func pickUsers(r *rand.Rand, users []*models.User, n int) []*models.User {
	if n >= len(users) {
		n = len(users)
	}
	perm := r.Perm(len(users))
	picked := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		picked = append(picked, users[perm[i]])
	}
	return picked
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE likes, comments, posts, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/anonto42/yatube/internal/models"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/anonto42/yatube/pkg/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
	"gorm.io/gorm"
)

func main() {
	var (
		migrate     = flag.Bool("migrate", false, "Create or update the database schema")
		createUser  = flag.Bool("create-user", false, "Create a user (password is prompted)")
		deleteUser  = flag.Bool("delete-user", false, "Delete a user with their posts, comments and follows")
		listGroups  = flag.Bool("list-groups", false, "List all groups")
		createGroup = flag.Bool("create-group", false, "Create a group")
		deleteGroup = flag.Bool("delete-group", false, "Delete a group, keeping its posts")
		deletePost  = flag.Int("delete-post", 0, "Delete the post with this id, keeping its comments")
		username    = flag.String("username", "", "Username for user operations")
		email       = flag.String("email", "", "Email for user creation")
		title       = flag.String("title", "", "Title for group creation")
		slug        = flag.String("slug", "", "Slug for group operations")
		description = flag.String("description", "", "Description for group creation")
	)
	flag.Parse()

	if !*migrate && !*createUser && !*deleteUser && !*listGroups && !*createGroup && !*deleteGroup && *deletePost == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\nOptions:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -create-user -username leo -email leo@example.com\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -create-group -title \"Cats\" -slug cats\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -delete-post 42\n", os.Args[0])
		os.Exit(1)
	}

	cfg := config.Load()
	logger, err := config.NewLogger(cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	db, err := config.OpenSQL(cfg.DBDriver, cfg.DatabaseURL, true)
	if err != nil {
		sugar.Fatalf("Failed to open database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		sugar.Fatalf("Failed to apply migrations: %v", err)
	}

	ctx := context.Background()
	users := repositories.NewGormUserRepository(db)
	groups := repositories.NewGormGroupRepository(db)
	posts := repositories.NewGormPostRepository(db)

	switch {
	case *migrate:
		sugar.Info("schema is up to date")

	case *createUser:
		if *username == "" {
			sugar.Fatal("-username is required")
		}
		if err := createNewUser(ctx, users, *username, *email); err != nil {
			sugar.Fatalf("Failed to create user: %v", err)
		}
		sugar.Infof("user %q created", *username)

	case *deleteUser:
		user, err := users.GetUserByUsername(ctx, *username)
		if err != nil {
			sugar.Fatalf("User %q: %v", *username, err)
		}
		if err := users.DeleteUser(ctx, user.ID); err != nil {
			sugar.Fatalf("Failed to delete user: %v", err)
		}
		sugar.Infof("user %q deleted", *username)

	case *listGroups:
		if err := printGroups(ctx, groups); err != nil {
			sugar.Fatalf("Failed to list groups: %v", err)
		}

	case *createGroup:
		if *title == "" || *slug == "" {
			sugar.Fatal("-title and -slug are required")
		}
		group := &models.Group{Title: *title, Slug: *slug, Description: *description}
		if err := groups.CreateGroup(ctx, group); err != nil {
			sugar.Fatalf("Failed to create group: %v", err)
		}
		sugar.Infow("group created", zap.Uint("id", group.ID), zap.String("slug", group.Slug))

	case *deleteGroup:
		group, err := groups.GetGroupBySlug(ctx, *slug)
		if err != nil {
			sugar.Fatalf("Group %q: %v", *slug, err)
		}
		if err := groups.DeleteGroup(ctx, group.ID); err != nil {
			sugar.Fatalf("Failed to delete group: %v", err)
		}
		sugar.Infof("group %q deleted", *slug)

	case *deletePost != 0:
		if err := posts.DeletePost(ctx, uint(*deletePost)); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				sugar.Fatalf("Post %d does not exist", *deletePost)
			}
			sugar.Fatalf("Failed to delete post: %v", err)
		}
		sugar.Infof("post %d deleted", *deletePost)
	}
}

func createNewUser(ctx context.Context, users repositories.UserRepository, username, email string) error {
	if _, err := users.GetUserByUsername(ctx, username); err == nil {
		return fmt.Errorf("user %q already exists", username)
	}

	fmt.Print("Enter password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if string(password) != string(confirm) {
		return errors.New("passwords do not match")
	}
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return users.CreateUser(ctx, &models.User{Username: username, Email: email, Password: string(hash)})
}

func printGroups(ctx context.Context, groups repositories.GroupRepository) error {
	list, err := groups.GetGroups(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSLUG\tTITLE")
	for _, g := range list {
		fmt.Fprintln(w, strconv.FormatUint(uint64(g.ID), 10)+"\t"+g.Slug+"\t"+g.Title)
	}
	return w.Flush()
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"vidhost/console/internal/api"
	"vidhost/console/internal/guard"
	"vidhost/console/internal/service"
)

func (a *app) cmdAdmins(ctx context.Context, args []string) error {
	// Admin management is reserved for super admins.
	if err := a.gate(guard.Route{Path: "/admins", RequireSuperAdmin: true}); err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: console admins list|create|update|delete")
	}

	switch args[0] {
	case "list":
		return a.adminsList(ctx)
	case "create":
		return a.adminsCreate(ctx, args[1:])
	case "update":
		return a.adminsUpdate(ctx, args[1:])
	case "delete":
		return a.adminsDelete(ctx, args[1:])
	default:
		return fmt.Errorf("unknown admins subcommand %q", args[0])
	}
}

func (a *app) adminsList(ctx context.Context) error {
	if err := a.admins.Load(ctx); err != nil {
		return err
	}
	for _, admin := range a.admins.Admins() {
		fmt.Printf("%s\t%s\t%s\n", admin.ID, admin.Username, admin.Email)
	}
	return nil
}

func (a *app) adminsCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admins create", flag.ExitOnError)
	username := fs.String("username", "", "admin username")
	email := fs.String("email", "", "admin email")
	password := fs.String("password", "", "admin password")
	confirm := fs.String("confirm", "", "password confirmation")
	_ = fs.Parse(args)

	admin, err := a.admins.Create(ctx, service.CreateAdminInput{
		Username:        *username,
		Email:           *email,
		Password:        *password,
		ConfirmPassword: *confirm,
	})
	if err != nil {
		return describeConflict(err)
	}
	fmt.Printf("created admin %s (%s)\n", admin.Username, admin.ID)
	return nil
}

func (a *app) adminsUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admins update", flag.ExitOnError)
	id := fs.String("id", "", "admin id")
	username := fs.String("username", "", "new username (empty keeps current)")
	email := fs.String("email", "", "new email (empty keeps current)")
	password := fs.String("password", "", "new password (empty keeps current)")
	_ = fs.Parse(args)

	if a.admins.ShouldRefetch() {
		if err := a.admins.Load(ctx); err != nil {
			return err
		}
	}

	admin, err := a.admins.Update(ctx, *id, service.AdminPatch{
		Username: *username,
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		if errors.Is(err, service.ErrNoChanges) {
			fmt.Println("no changes")
			return nil
		}
		return describeConflict(err)
	}
	fmt.Printf("updated admin %s\n", admin.ID)
	return nil
}

func (a *app) adminsDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: console admins delete <id>")
	}

	if a.admins.ShouldRefetch() {
		if err := a.admins.Load(ctx); err != nil {
			return err
		}
	}

	if err := a.admins.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted admin %s\n", args[0])
	return nil
}

// describeConflict rewords a field-tagged conflict so the user sees which
// input to fix.
func describeConflict(err error) error {
	if api.IsConflict(err) {
		if field := api.FieldOf(err); field != "" {
			return fmt.Errorf("%s is already in use", field)
		}
	}
	return err
}

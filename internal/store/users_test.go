package store

import (
	"context"
	"testing"

	"github.com/erazemk/arsenal/internal/db"
	"github.com/erazemk/arsenal/internal/model"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	base := mustBase(t, database, "Alpha", "alp")
	user, err := CreateUser(ctx, database, "testuser", "Test User", "hash123", model.RoleBaseCommander, &base.ID)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Username != "testuser" {
		t.Errorf("expected username 'testuser', got %q", user.Username)
	}
	if user.Role != model.RoleBaseCommander {
		t.Errorf("expected role 'base_commander', got %q", user.Role)
	}
	if user.BaseID == nil || *user.BaseID != base.ID {
		t.Errorf("expected base %d, got %v", base.ID, user.BaseID)
	}

	got, err := GetUser(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.FullName != "Test User" {
		t.Errorf("expected full name 'Test User', got %q", got.FullName)
	}
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := CreateUser(context.Background(), database, "x", "", "hash", "superuser", nil)
	if err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestGetUserByUsername(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	mustUser(t, database, "alice")

	user, err := GetUserByUsername(ctx, database, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}

	missing, err := GetUserByUsername(ctx, database, "bob")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing user")
	}
}

func TestDeactivateUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	mustUser(t, database, "a")
	user := mustUser(t, database, "b")
	if err := DeactivateUser(ctx, database, user.ID); err != nil {
		t.Fatalf("DeactivateUser: %v", err)
	}

	users, _ := ListUsers(ctx, database)
	if len(users) != 1 {
		t.Errorf("expected 1 active user, got %d", len(users))
	}

	if err := UpdateUser(ctx, database, user.ID, model.RoleAdmin, nil); err != ErrNotFound {
		t.Errorf("expected ErrNotFound updating inactive user, got %v", err)
	}
}

func TestUpdateUserPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := mustUser(t, database, "pwuser")
	UpdateUserPassword(ctx, database, user.ID, "newhash")

	got, _ := GetUser(ctx, database, user.ID)
	if got.PasswordHash != "newhash" {
		t.Errorf("expected password hash 'newhash', got %q", got.PasswordHash)
	}
}

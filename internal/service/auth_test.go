package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kvasnytsia/famplan/internal/core"
	"github.com/kvasnytsia/famplan/pkg/models"
)

func TestAuthClient_SignIn(t *testing.T) {
	var gotPath string
	var gotCreds Credentials

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotCreds)
		_ = json.NewEncoder(w).Encode(AuthResult{
			Token: "jwt-token",
			User:  models.UserProfile{Username: "alice", Email: "alice@example.com"},
		})
	}))
	defer srv.Close()

	a := NewAuthClient(srv.URL, 5*time.Second)
	result, err := a.SignIn(context.Background(), Credentials{Email: "alice@example.com", Password: "hunter2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/api/auth/sign-in" {
		t.Errorf("path = %q", gotPath)
	}
	if gotCreds.Email != "alice@example.com" {
		t.Errorf("credentials = %+v", gotCreds)
	}
	if result.Token != "jwt-token" || result.User.Username != "alice" {
		t.Errorf("result = %+v", result)
	}
}

// Any client-side rejection of credentials reads the same to the user,
// whatever status the backend picked.
func TestAuthClient_SignInRejections(t *testing.T) {
	for _, status := range []int{
		http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusNotFound,
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		a := NewAuthClient(srv.URL, 5*time.Second)
		_, err := a.SignIn(context.Background(), Credentials{Email: "x", Password: "y"})
		srv.Close()

		if !core.IsValidation(err) {
			t.Errorf("status %d: kind = %v, want validation", status, core.KindOf(err))
		}
		if err.Error() != "invalid email or password" {
			t.Errorf("status %d: message = %q", status, err.Error())
		}
	}
}

func TestAuthClient_SignInEmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(AuthResult{})
	}))
	defer srv.Close()

	a := NewAuthClient(srv.URL, 5*time.Second)
	_, err := a.SignIn(context.Background(), Credentials{Email: "x", Password: "y"})
	if core.KindOf(err) != core.KindServer {
		t.Errorf("kind = %v, want server_error", core.KindOf(err))
	}
}

func TestAuthClient_SignUp(t *testing.T) {
	var gotReg Registration
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReg)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	a := NewAuthClient(srv.URL, 5*time.Second)
	err := a.SignUp(context.Background(), Registration{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter2",
		Age:      34,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotReg.Username != "alice" || gotReg.Age != 34 {
		t.Errorf("registration = %+v", gotReg)
	}
}

func TestAuthClient_SignUpDuplicateEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	a := NewAuthClient(srv.URL, 5*time.Second)
	err := a.SignUp(context.Background(), Registration{Email: "taken@example.com"})
	if !core.IsValidation(err) {
		t.Errorf("kind = %v, want validation", core.KindOf(err))
	}
}

func TestAuthClient_SignUpBadRequestUsesAPIMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"password too short"}`))
	}))
	defer srv.Close()

	a := NewAuthClient(srv.URL, 5*time.Second)
	err := a.SignUp(context.Background(), Registration{})
	if !core.IsValidation(err) {
		t.Fatalf("kind = %v, want validation", core.KindOf(err))
	}
	if err.Error() != "password too short" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestAuthClient_ForgotPassword(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
	}))
	defer srv.Close()

	a := NewAuthClient(srv.URL, 5*time.Second)
	if err := a.ForgotPassword(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody["email"] != "alice@example.com" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestAuthClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	a := NewAuthClient(srv.URL, time.Second)
	_, err := a.SignIn(context.Background(), Credentials{})
	if core.KindOf(err) != core.KindUnavailable {
		t.Errorf("kind = %v, want unavailable", core.KindOf(err))
	}
}

package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestSignResolveRoundTrip(t *testing.T) {
	r := NewResolver([]byte("test-secret"))
	want := Principal{UserID: uuid.New(), Role: RolePatient}

	token, err := r.Sign(want)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	got, err := r.Resolve("Bearer " + token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != want {
		t.Fatalf("principal: got %+v, want %+v", got, want)
	}
}

func TestResolveRejectsBadHeaders(t *testing.T) {
	r := NewResolver([]byte("test-secret"))
	token, err := r.Sign(Principal{UserID: uuid.New(), Role: RoleDoctor})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	for _, header := range []string{
		"",
		"Bearer ",
		token,
		"Basic " + token,
		"Bearer not-a-token",
	} {
		if _, err := r.Resolve(header); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("header %q: got %v, want ErrInvalidToken", header, err)
		}
	}
}

func TestResolveRejectsWrongSecret(t *testing.T) {
	signer := NewResolver([]byte("secret-a"))
	token, err := signer.Sign(Principal{UserID: uuid.New(), Role: RoleAdmin})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	verifier := NewResolver([]byte("secret-b"))
	if _, err := verifier.Resolve("Bearer " + token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("got %v, want ErrInvalidToken", err)
	}
}

func TestResolveRejectsUnknownRole(t *testing.T) {
	r := NewResolver([]byte("test-secret"))
	token, err := r.Sign(Principal{UserID: uuid.New(), Role: Role("superuser")})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := r.Resolve("Bearer " + token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("got %v, want ErrInvalidToken", err)
	}
}

func TestPrincipalContext(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("empty context should carry no principal")
	}

	p := Principal{UserID: uuid.New(), Role: RolePatient}
	ctx := WithPrincipal(context.Background(), p)
	got, ok := FromContext(ctx)
	if !ok || got != p {
		t.Fatalf("got %+v (ok=%v), want %+v", got, ok, p)
	}
}

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gauravsahdz/ecommerce-api/internal/domain"
)

func TestIssueVerify_RoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Issue("user-1", domain.RoleEditor)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	id, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.ID != "user-1" || id.Role != domain.RoleEditor {
		t.Fatalf("identity = %+v", id)
	}
}

func TestVerify_ExpiredIsDistinctFromTampered(t *testing.T) {
	m := NewManager("test-secret", time.Minute)

	issued := time.Now().UTC()
	m.now = func() time.Time { return issued }
	token, err := m.Issue("user-1", domain.RoleViewer)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Past expiry: the cause must be ErrTokenExpired, not ErrTokenInvalid.
	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := m.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expired token: got %v, want ErrTokenExpired", err)
	}

	// Tampered payload: still within validity but the signature is broken.
	m.now = func() time.Time { return issued }
	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	if _, err := m.Verify(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("tampered token: got %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_WrongSecretRejected(t *testing.T) {
	a := NewManager("secret-a", time.Hour)
	b := NewManager("secret-b", time.Hour)

	token, err := a.Issue("user-1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := b.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("wrong secret: got %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_UnknownRoleRejected(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Issue("user-1", domain.Role("Superuser"))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := m.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("unknown role: got %v, want ErrTokenInvalid", err)
	}
}

func TestParseBearer(t *testing.T) {
	if _, err := ParseBearer(""); !errors.Is(err, ErrNoToken) {
		t.Fatalf("empty header: %v", err)
	}
	if _, err := ParseBearer("Basic abc"); !errors.Is(err, ErrNoToken) {
		t.Fatalf("wrong scheme: %v", err)
	}
	if _, err := ParseBearer("Bearer "); !errors.Is(err, ErrNoToken) {
		t.Fatalf("empty credential: %v", err)
	}
	tok, err := ParseBearer("Bearer abc.def.ghi")
	if err != nil || tok != "abc.def.ghi" {
		t.Fatalf("ParseBearer = %q, %v", tok, err)
	}
}

func TestAuthorize(t *testing.T) {
	editor := &Identity{ID: "u1", Role: domain.RoleEditor}

	if err := Authorize(nil, domain.RoleAdmin); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("nil identity: %v", err)
	}
	if err := Authorize(&Identity{ID: "u1", Role: domain.Role("bogus")}); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("invalid role: %v", err)
	}
	if err := Authorize(editor); err != nil {
		t.Fatalf("empty required set should allow any authenticated caller: %v", err)
	}
	if err := Authorize(editor, domain.RoleAdmin); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("role outside set: %v", err)
	}
	if err := Authorize(editor, domain.RoleAdmin, domain.RoleEditor); err != nil {
		t.Fatalf("role in set: %v", err)
	}
}

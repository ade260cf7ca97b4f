package domains

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vendix/domain-gateway/internal/events"
	"github.com/vendix/domain-gateway/internal/storage"
	"github.com/vendix/domain-gateway/internal/testutil/mockstore"
)

func newServiceFixture(t *testing.T) (*Service, *mockstore.MockStorage, *events.Bus) {
	t.Helper()
	mock := &mockstore.MockStorage{}
	bus := events.NewBus(nil)
	svc := NewService(mock, bus, "vendix.app", nil)
	return svc, mock, bus
}

func TestCreateCustomStoreDomain(t *testing.T) {
	svc, _, _ := newServiceFixture(t)
	storeID := int64(5)

	created, err := svc.Create(context.Background(), &CreateDomainRequest{
		Hostname: "Shop.Example.COM",
		StoreID:  &storeID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.Hostname != "shop.example.com" {
		t.Errorf("hostname not normalized: %q", created.Hostname)
	}
	if created.DomainType != storage.DomainTypeStore {
		t.Errorf("expected store type, got %s", created.DomainType)
	}
	if created.Ownership != storage.OwnershipCustomSubdomain {
		t.Errorf("expected custom_subdomain, got %s", created.Ownership)
	}
	if created.Status != storage.StatusPendingDNS {
		t.Errorf("verifiable domain must start pending_dns, got %s", created.Status)
	}
	if created.VerificationToken == nil || !strings.HasPrefix(*created.VerificationToken, "vendix-verify-") {
		t.Errorf("missing or malformed verification token: %v", created.VerificationToken)
	}
}

func TestCreatePlatformSubdomainIsActiveImmediately(t *testing.T) {
	svc, _, _ := newServiceFixture(t)

	created, err := svc.Create(context.Background(), &CreateDomainRequest{
		Hostname: "shop.acme.vendix.app",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.DomainType != storage.DomainTypeEcommerce {
		t.Errorf("expected ecommerce type, got %s", created.DomainType)
	}
	if created.Status != storage.StatusActive {
		t.Errorf("non-verifiable domain must be active, got %s", created.Status)
	}
	if created.VerificationToken != nil {
		t.Errorf("non-verifiable domain must not carry a token")
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc, _, _ := newServiceFixture(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &CreateDomainRequest{Hostname: "   "}); !errors.Is(err, ErrEmptyHostname) {
		t.Errorf("expected ErrEmptyHostname, got %v", err)
	}
	_, err := svc.Create(ctx, &CreateDomainRequest{Hostname: "x.example.com", DomainType: "warehouse"})
	if !errors.Is(err, ErrInvalidDomainType) {
		t.Errorf("expected ErrInvalidDomainType, got %v", err)
	}
}

func TestMutationsPublishInvalidation(t *testing.T) {
	svc, mock, bus := newServiceFixture(t)
	ctx := context.Background()

	var invalidated []string
	bus.Subscribe(events.TopicDomainCacheInvalidate, func(payload any) {
		if inv, ok := payload.(events.DomainInvalidation); ok {
			invalidated = append(invalidated, inv.Hostname)
		}
	})

	mock.UpdateDomainFunc = func(ctx context.Context, hostname string, patch *storage.DomainUpdate) (*storage.DomainSetting, error) {
		return &storage.DomainSetting{Hostname: hostname}, nil
	}
	mock.SetPrimaryDomainFunc = func(ctx context.Context, hostname string) (*storage.DomainSetting, error) {
		return &storage.DomainSetting{Hostname: hostname, IsPrimary: true}, nil
	}

	if _, err := svc.Create(ctx, &CreateDomainRequest{Hostname: "a.example.com"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Update(ctx, "a.example.com", &storage.DomainUpdate{}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if _, err := svc.SetPrimary(ctx, "a.example.com"); err != nil {
		t.Fatalf("SetPrimary failed: %v", err)
	}
	if err := svc.Delete(ctx, "a.example.com"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if len(invalidated) != 4 {
		t.Errorf("expected 4 invalidation events, got %d (%v)", len(invalidated), invalidated)
	}
	for _, hostname := range invalidated {
		if hostname != "a.example.com" {
			t.Errorf("unexpected invalidation for %q", hostname)
		}
	}
}

func TestUpdateNotFoundDoesNotInvalidate(t *testing.T) {
	svc, _, bus := newServiceFixture(t)

	published := 0
	bus.Subscribe(events.TopicDomainCacheInvalidate, func(any) { published++ })

	if _, err := svc.Update(context.Background(), "ghost.example.com", &storage.DomainUpdate{}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if published != 0 {
		t.Errorf("failed update must not publish invalidation")
	}
}

func TestGenerateVerificationTokenUnique(t *testing.T) {
	t1, err := generateVerificationToken()
	if err != nil {
		t.Fatalf("generateVerificationToken failed: %v", err)
	}
	t2, err := generateVerificationToken()
	if err != nil {
		t.Fatalf("generateVerificationToken failed: %v", err)
	}
	if t1 == t2 {
		t.Errorf("tokens must be unique")
	}
	if len(t1) != len("vendix-verify-")+32 {
		t.Errorf("unexpected token length: %d", len(t1))
	}
}

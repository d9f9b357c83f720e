package business

import (
	"testing"

	"github.com/fenix-platform/whatsapp-relay/internal/model"
	"github.com/fenix-platform/whatsapp-relay/pkg/logger"
)

func newTestRegistry() *Registry {
	return NewRegistry(logger.NewNop())
}

func TestCreateAssignsIdentity(t *testing.T) {
	r := newTestRegistry()

	b := r.Create(model.Business{
		Name:          "Acme Dental",
		Industry:      "healthcare",
		PhoneNumberID: "pn-1",
		AutoReply:     true,
	})

	if b.ID == "" {
		t.Fatal("expected an assigned id")
	}
	if b.CreatedAt.IsZero() || b.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}

	got, ok := r.GetByID(b.ID)
	if !ok || got.Name != "Acme Dental" {
		t.Fatalf("GetByID = %+v, %v", got, ok)
	}
}

func TestResolveByPhoneNumberID(t *testing.T) {
	r := newTestRegistry()
	created := r.Create(model.Business{Name: "Acme", PhoneNumberID: "pn-42"})

	got, ok := r.ResolveByPhoneNumberID("pn-42")
	if !ok || got.ID != created.ID {
		t.Fatalf("resolve = %+v, %v", got, ok)
	}

	if _, ok := r.ResolveByPhoneNumberID("pn-missing"); ok {
		t.Fatal("resolved an unregistered phone number id")
	}
}

func TestUpdateIsPartial(t *testing.T) {
	r := newTestRegistry()
	created := r.Create(model.Business{
		Name:      "Acme",
		Industry:  "retail",
		AutoReply: true,
	})

	name := "Acme Stores"
	autoReply := false
	got, ok := r.Update(created.ID, &model.UpdateBusinessRequest{
		Name:      &name,
		AutoReply: &autoReply,
	})
	if !ok {
		t.Fatal("update reported not found")
	}
	if got.Name != "Acme Stores" || got.AutoReply {
		t.Fatalf("updated business = %+v", got)
	}
	if got.Industry != "retail" {
		t.Fatalf("untouched field changed: industry = %s", got.Industry)
	}
	if !got.UpdatedAt.After(created.UpdatedAt) && !got.UpdatedAt.Equal(created.UpdatedAt) {
		t.Fatal("UpdatedAt went backwards")
	}

	if _, ok := r.Update("missing", &model.UpdateBusinessRequest{Name: &name}); ok {
		t.Fatal("update of unknown id reported success")
	}
}

func TestReturnedBusinessIsACopy(t *testing.T) {
	r := newTestRegistry()
	created := r.Create(model.Business{Name: "Acme"})

	got, _ := r.GetByID(created.ID)
	got.Name = "tampered"

	again, _ := r.GetByID(created.ID)
	if again.Name != "Acme" {
		t.Fatal("mutating a returned business leaked into the registry")
	}
}

func TestAllListsEveryBusiness(t *testing.T) {
	r := newTestRegistry()
	r.Create(model.Business{Name: "A"})
	r.Create(model.Business{Name: "B"})

	if got := r.All(); len(got) != 2 {
		t.Fatalf("All = %d businesses, want 2", len(got))
	}
}

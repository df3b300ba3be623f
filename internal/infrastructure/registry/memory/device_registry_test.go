package memory

import (
	"context"
	"testing"

	"github.com/lightdata/push-dispatch/internal/application/port"
)

func TestRegisterUpsertKeepsOrder(t *testing.T) {
	reg := NewDeviceRegistry()
	ctx := context.Background()

	for _, token := range []string{"t1", "t2", "t3"} {
		if err := reg.Register(ctx, port.Device{UserID: "u", Token: token, Platform: "android"}); err != nil {
			t.Fatalf("register %s: %v", token, err)
		}
	}
	// Re-register must not duplicate or reorder
	if err := reg.Register(ctx, port.Device{UserID: "u2", Token: "t2", Platform: "ios"}); err != nil {
		t.Fatalf("re-register: %v", err)
	}

	recipients, err := reg.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	want := []string{"t1", "t2", "t3"}
	if len(recipients) != len(want) {
		t.Fatalf("got %d recipients, want %d", len(recipients), len(want))
	}
	for i, token := range want {
		if recipients[i].Token != token {
			t.Fatalf("recipients[%d] = %s, want %s", i, recipients[i].Token, token)
		}
	}
}

func TestDeactivateRemovesToken(t *testing.T) {
	reg := NewDeviceRegistry()
	ctx := context.Background()

	for _, token := range []string{"t1", "t2", "t3"} {
		if err := reg.Register(ctx, port.Device{UserID: "u", Token: token, Platform: "android"}); err != nil {
			t.Fatalf("register %s: %v", token, err)
		}
	}

	if err := reg.Deactivate(ctx, "t2"); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	// Unknown token is a no-op
	if err := reg.Deactivate(ctx, "missing"); err != nil {
		t.Fatalf("Deactivate unknown: %v", err)
	}

	recipients, err := reg.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(recipients) != 2 || recipients[0].Token != "t1" || recipients[1].Token != "t3" {
		t.Fatalf("recipients after deactivate = %v, want [t1 t3]", recipients)
	}
}

package service

import (
	"testing"

	"github.com/tindahan-next/internal/models"
	"github.com/tindahan-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestCartStorage(t *testing.T) repository.CartStorage {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.CartRecord{}); err != nil {
		t.Fatalf("auto migrate cart record failed: %v", err)
	}
	return repository.NewCartStorage(db)
}

func newTestCartService(t *testing.T) (*CartService, repository.CartStorage) {
	t.Helper()
	storage := newTestCartStorage(t)
	return NewCartService(storage, "cart"), storage
}

func TestCartServiceLoad_MergesDuplicateIDs(t *testing.T) {
	storage := newTestCartStorage(t)
	seed := []models.CartLine{
		{ID: 1, Name: "Phone", UnitPrice: models.NewMoneyFromFloat(1000), Quantity: 2},
		{ID: 1, Name: "Phone", UnitPrice: models.NewMoneyFromFloat(1000), Quantity: 3},
	}
	if err := storage.Save("cart", seed); err != nil {
		t.Fatalf("seed save failed: %v", err)
	}

	cart := NewCartService(storage, "cart")
	lines, err := cart.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 merged line, got %d", len(lines))
	}
	if lines[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", lines[0].Quantity)
	}

	// 修复必须立刻回写，重新加载不得再出现重复行
	reloaded, err := storage.Load("cart")
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(reloaded) != 1 || reloaded[0].Quantity != 5 {
		t.Fatalf("expected repaired persistence, got %+v", reloaded)
	}
}

func TestCartServiceAdd_IncrementsExistingLine(t *testing.T) {
	cart, _ := newTestCartService(t)

	line := models.CartLine{ID: 1, Name: "Phone", UnitPrice: models.NewMoneyFromFloat(1000)}
	if err := cart.Add(line, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := cart.Add(line, 3); err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	lines := cart.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected single line, got %d", len(lines))
	}
	if lines[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", lines[0].Quantity)
	}
	if cart.Count() != 1 {
		t.Fatalf("expected badge count 1, got %d", cart.Count())
	}
}

func TestCartServiceAdd_RejectsInvalidInput(t *testing.T) {
	cart, _ := newTestCartService(t)

	if err := cart.Add(models.CartLine{ID: 0}, 1); err != ErrCartLineInvalid {
		t.Fatalf("expected ErrCartLineInvalid for zero id, got %v", err)
	}
	if err := cart.Add(models.CartLine{ID: 1}, 0); err != ErrCartLineInvalid {
		t.Fatalf("expected ErrCartLineInvalid for zero quantity, got %v", err)
	}
}

func TestCartServiceRemove_MissingIDIsNoop(t *testing.T) {
	cart, _ := newTestCartService(t)

	if err := cart.Add(models.CartLine{ID: 1, Name: "Phone"}, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := cart.Remove(99); err != nil {
		t.Fatalf("remove of absent id must be a no-op, got %v", err)
	}
	if cart.Count() != 1 {
		t.Fatalf("expected untouched cart, got count %d", cart.Count())
	}
}

func TestCartServiceSetQuantity_RejectsBelowOne(t *testing.T) {
	cart, _ := newTestCartService(t)

	if err := cart.Add(models.CartLine{ID: 1, Name: "Phone"}, 4); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := cart.SetQuantity(1, 0); err != nil {
		t.Fatalf("setQuantity(0) must be a no-op, got %v", err)
	}
	if err := cart.SetQuantity(1, -1); err != nil {
		t.Fatalf("setQuantity(-1) must be a no-op, got %v", err)
	}
	if got := cart.Lines()[0].Quantity; got != 4 {
		t.Fatalf("expected quantity unchanged at 4, got %d", got)
	}
}

func TestCartServiceSetQuantity_ClampsToKnownAvailability(t *testing.T) {
	cart, _ := newTestCartService(t)

	if err := cart.Add(models.CartLine{ID: 1, Name: "Phone"}, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := cart.ApplyCatalog([]models.CatalogProduct{
		{ID: 1, Price: models.NewMoneyFromFloat(900), Quantity: 3},
	}); err != nil {
		t.Fatalf("apply catalog failed: %v", err)
	}

	if err := cart.SetQuantity(1, 10); err != nil {
		t.Fatalf("setQuantity failed: %v", err)
	}
	if got := cart.Lines()[0].Quantity; got != 3 {
		t.Fatalf("expected clamp to availability 3, got %d", got)
	}
}

func TestCartServiceSetQuantity_NoClampWhenAvailabilityUnknown(t *testing.T) {
	cart, _ := newTestCartService(t)

	if err := cart.Add(models.CartLine{ID: 1, Name: "Phone"}, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := cart.SetQuantity(1, 50); err != nil {
		t.Fatalf("setQuantity failed: %v", err)
	}
	if got := cart.Lines()[0].Quantity; got != 50 {
		t.Fatalf("expected unclamped quantity 50 before reconciliation, got %d", got)
	}
}

func TestCartServiceRemoveMany_ByMembershipRegardlessOfOrder(t *testing.T) {
	cart, storage := newTestCartService(t)

	for _, line := range []models.CartLine{
		{ID: 1, Name: "Phone", Quantity: 2},
		{ID: 2, Name: "Case", Quantity: 1},
		{ID: 3, Name: "TV", Quantity: 5},
	} {
		if err := cart.Add(models.CartLine{ID: line.ID, Name: line.Name}, line.Quantity); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	if err := cart.RemoveMany([]uint{3, 1}); err != nil {
		t.Fatalf("removeMany failed: %v", err)
	}

	lines := cart.Lines()
	if len(lines) != 1 || lines[0].ID != 2 || lines[0].Quantity != 1 {
		t.Fatalf("expected remaining cart [{id:2 qty:1}], got %+v", lines)
	}

	persisted, err := storage.Load("cart")
	if err != nil {
		t.Fatalf("persisted load failed: %v", err)
	}
	if len(persisted) != 1 || persisted[0].ID != 2 {
		t.Fatalf("expected persisted cart pruned, got %+v", persisted)
	}
}

func TestCartServiceApplyCatalog_PatchesWithoutTouchingQuantities(t *testing.T) {
	cart, _ := newTestCartService(t)

	if err := cart.Add(models.CartLine{ID: 1, Name: "Phone", UnitPrice: models.NewMoneyFromFloat(1000)}, 6); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := cart.Add(models.CartLine{ID: 2, Name: "Discontinued", UnitPrice: models.NewMoneyFromFloat(80)}, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := cart.ApplyCatalog([]models.CatalogProduct{
		{ID: 1, Price: models.NewMoneyFromFloat(950), Quantity: 4},
	}); err != nil {
		t.Fatalf("apply catalog failed: %v", err)
	}

	lines := cart.Lines()
	if lines[0].Quantity != 6 {
		t.Fatalf("reconciliation must never modify quantity, got %d", lines[0].Quantity)
	}
	if lines[0].UnitPrice.String() != "950.00" {
		t.Fatalf("expected refreshed price 950.00, got %s", lines[0].UnitPrice.String())
	}
	if lines[0].AvailableQuantity == nil || *lines[0].AvailableQuantity != 4 {
		t.Fatalf("expected availability 4, got %v", lines[0].AvailableQuantity)
	}
	if lines[1].AvailableQuantity == nil || *lines[1].AvailableQuantity != 0 {
		t.Fatalf("expected unknown product marked out of stock, got %v", lines[1].AvailableQuantity)
	}
	if lines[1].Quantity != 2 {
		t.Fatalf("out-of-stock line must keep its quantity, got %d", lines[1].Quantity)
	}
}

package repository

import (
	"testing"

	"github.com/tindahan-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestStorage(t *testing.T) *GormCartStorage {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.CartRecord{}); err != nil {
		t.Fatalf("auto migrate cart record failed: %v", err)
	}
	return NewCartStorage(db)
}

func TestGormCartStorage_LoadMissingKeyReturnsEmpty(t *testing.T) {
	storage := newTestStorage(t)

	lines, err := storage.Load("cart")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(lines))
	}
}

func TestGormCartStorage_SaveOverwritesWholesale(t *testing.T) {
	storage := newTestStorage(t)

	first := []models.CartLine{
		{ID: 1, Name: "Phone", UnitPrice: models.NewMoneyFromFloat(1000), Quantity: 2},
		{ID: 2, Name: "Case", UnitPrice: models.NewMoneyFromFloat(50), Quantity: 1},
	}
	if err := storage.Save("cart", first); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	second := []models.CartLine{
		{ID: 2, Name: "Case", UnitPrice: models.NewMoneyFromFloat(50), Quantity: 3},
	}
	if err := storage.Save("cart", second); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	loaded, err := storage.Load("cart")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 line after overwrite, got %d", len(loaded))
	}
	if loaded[0].ID != 2 || loaded[0].Quantity != 3 {
		t.Fatalf("unexpected line after overwrite: %+v", loaded[0])
	}
}

func TestGormCartStorage_AvailabilityNotPersisted(t *testing.T) {
	storage := newTestStorage(t)

	available := 9
	lines := []models.CartLine{
		{ID: 5, Name: "TV", UnitPrice: models.NewMoneyFromFloat(300), Quantity: 1, AvailableQuantity: &available},
	}
	if err := storage.Save("cart", lines); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := storage.Load("cart")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 line, got %d", len(loaded))
	}
	if loaded[0].AvailableQuantity != nil {
		t.Fatalf("availability annotation must be transient, got %d", *loaded[0].AvailableQuantity)
	}
	if loaded[0].UnitPrice.String() != "300.00" {
		t.Fatalf("expected price 300.00, got %s", loaded[0].UnitPrice.String())
	}
}

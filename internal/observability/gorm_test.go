package observability

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestRegisterGORMCallbacksDisabled(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	// Nil config and disabled tracing are both no-ops
	if err := RegisterGORMCallbacks(db, nil); err != nil {
		t.Errorf("unexpected error for nil config: %v", err)
	}
	if err := RegisterGORMCallbacks(db, NewConfig()); err != nil {
		t.Errorf("unexpected error for config without tracing: %v", err)
	}
}

func TestRegisterGORMCallbacksIntegration(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	type testCard struct {
		ID   int `gorm:"primarykey"`
		Name string
	}
	if err := db.AutoMigrate(&testCard{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := NewConfig(
		WithTracerProvider(tracenoop.NewTracerProvider()),
		WithMeterProvider(noop.NewMeterProvider()),
		WithDBTracing(),
	)
	if err := cfg.Initialize(); err != nil {
		t.Fatalf("failed to initialize: %v", err)
	}

	if err := RegisterGORMCallbacks(db, cfg); err != nil {
		t.Fatalf("failed to register callbacks: %v", err)
	}

	// Instrumented operations still work end to end
	ctx := context.Background()
	if err := db.WithContext(ctx).Create(&testCard{ID: 1, Name: "Tarmogoyf"}).Error; err != nil {
		t.Fatalf("failed to create: %v", err)
	}

	var cards []testCard
	if err := db.WithContext(ctx).Find(&cards).Error; err != nil {
		t.Fatalf("failed to find: %v", err)
	}
	if len(cards) != 1 || cards[0].Name != "Tarmogoyf" {
		t.Errorf("unexpected rows after instrumented query: %+v", cards)
	}
}

package domain_test

import (
	"errors"
	"testing"

	"go.trai.ch/buckle/internal/core/domain"
	"go.trai.ch/zerr"
)

func module(path string, targets ...string) *domain.Module {
	m := &domain.Module{Path: path, Name: "release", Kind: domain.KindJavaLibrary}
	if len(targets) == 0 {
		return m
	}
	refs := make([]domain.ModuleRef, len(targets))
	for i, target := range targets {
		refs[i] = domain.ModuleRef{Path: target, Name: "release"}
	}
	m.Scopes = map[domain.ScopeName]domain.Scope{
		domain.ScopeMain: {Name: domain.ScopeMain, Targets: refs},
	}
	return m
}

func TestModuleGraph_Validate_Cycle(t *testing.T) {
	g := domain.NewModuleGraph([]*domain.Module{
		module("a", "b"),
		module("b", "c"),
		module("c", "a"),
	})

	err := g.Validate()
	if err == nil {
		t.Fatal("expected error for cycle, got nil")
	}

	var zErr *zerr.Error
	if !errors.As(err, &zErr) {
		t.Fatalf("expected *zerr.Error, got %T", err)
	}
	meta := zErr.Metadata()
	if cycle, ok := meta["cycle"].(string); !ok || cycle != "a:release -> b:release -> c:release -> a:release" {
		t.Errorf("unexpected cycle metadata: %v", meta["cycle"])
	}
}

func TestModuleGraph_Validate_TestScopeDoesNotCycle(t *testing.T) {
	a := module("a", "b")
	b := module("b")
	b.Scopes = map[domain.ScopeName]domain.Scope{
		domain.ScopeTest: {Name: domain.ScopeTest, Targets: []domain.ModuleRef{{Path: "a", Name: "release"}}},
	}

	if err := domain.NewModuleGraph([]*domain.Module{a, b}).Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestModuleGraph_Walk(t *testing.T) {
	// app -> core -> base, lib -> base, plus a reference outside the set.
	g := domain.NewModuleGraph([]*domain.Module{
		module("lib", "base"),
		module("app", "core", "excluded"),
		module("core", "base"),
		module("base"),
	})

	if err := g.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	var order []string
	for m := range g.Walk() {
		order = append(order, m.Path)
	}

	want := []string{"base", "core", "app", "lib"}
	if len(order) != len(want) {
		t.Fatalf("expected %d modules, got %v", len(want), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("unexpected walk order: %v", order)
		}
	}
}

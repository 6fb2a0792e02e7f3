package roles

import "testing"

func TestParseKnownRoles(t *testing.T) {
	for _, r := range All {
		parsed, err := Parse(string(r))
		if err != nil {
			t.Fatalf("parse %q: %v", r, err)
		}
		if parsed != r {
			t.Fatalf("parse %q returned %q", r, parsed)
		}
	}
	if _, err := Parse(" Manager "); err != nil {
		t.Fatalf("parse must normalise case and spacing: %v", err)
	}
}

func TestParseRejectsUnknown(t *testing.T) {
	for _, s := range []string{"", "user", "root", "operator"} {
		if _, err := Parse(s); err == nil {
			t.Fatalf("expected error for role %q", s)
		}
	}
}

func TestSuperRoles(t *testing.T) {
	if !Admin.IsSuper() || !Manager.IsSuper() {
		t.Fatal("admin and manager must be super-roles")
	}
	if Merchant.IsSuper() || Trader.IsSuper() {
		t.Fatal("merchant and trader must not be super-roles")
	}
}

func TestMenuIsExhaustive(t *testing.T) {
	for _, r := range All {
		if len(Menu(r)) == 0 {
			t.Fatalf("role %q has no menu", r)
		}
	}
	if Menu(Role("ghost")) != nil {
		t.Fatal("unknown role must have an empty menu")
	}
}

func TestMenuMatchesRoleItemSets(t *testing.T) {
	expect := map[Role][]string{
		Admin:    {"/dashboard", "/transactions", "/merchants", "/traders", "/disputes", "/stats", "/users", "/security", "/settings"},
		Manager:  {"/dashboard", "/transactions", "/merchants", "/traders", "/disputes", "/stats"},
		Merchant: {"/dashboard", "/transactions", "/integration", "/widget", "/disputes", "/balance", "/withdrawals", "/settings"},
		Trader:   {"/dashboard", "/orders", "/disputes", "/balance", "/cards", "/settings"},
	}
	for role, paths := range expect {
		menu := Menu(role)
		if len(menu) != len(paths) {
			t.Fatalf("role %q: expected %d items, got %d", role, len(paths), len(menu))
		}
		for i, p := range paths {
			if menu[i].Path != p {
				t.Fatalf("role %q item %d: expected %q, got %q", role, i, p, menu[i].Path)
			}
		}
	}
}

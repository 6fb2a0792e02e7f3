// Package roles defines the closed set of panel roles and the navigation
// each role is entitled to. Adding a role means extending the Menu switch,
// which the exhaustiveness test below enforces.
package roles

import (
	"fmt"
	"strings"
)

// Role identifies a panel user class.
type Role string

const (
	Admin    Role = "admin"
	Manager  Role = "manager"
	Merchant Role = "merchant"
	Trader   Role = "trader"
)

// All lists every known role.
var All = []Role{Admin, Manager, Merchant, Trader}

// Parse maps a backend role string onto the closed enumeration.
func Parse(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case Admin:
		return Admin, nil
	case Manager:
		return Manager, nil
	case Merchant:
		return Merchant, nil
	case Trader:
		return Trader, nil
	default:
		return "", fmt.Errorf("roles: unknown role %q", s)
	}
}

// IsSuper reports whether the role bypasses per-view role checks.
// Админ и менеджер имеют доступ ко всем разделам.
func (r Role) IsSuper() bool {
	return r == Admin || r == Manager
}

// MenuItem is one sidebar entry.
type MenuItem struct {
	Path  string
	Label string
}

// Menu returns the exact sidebar item set for the role.
func Menu(r Role) []MenuItem {
	switch r {
	case Admin:
		return []MenuItem{
			{Path: "/dashboard", Label: "Дашборд"},
			{Path: "/transactions", Label: "Транзакции"},
			{Path: "/merchants", Label: "Мерчанты"},
			{Path: "/traders", Label: "Трейдеры"},
			{Path: "/disputes", Label: "Споры"},
			{Path: "/stats", Label: "Статистика"},
			{Path: "/users", Label: "Пользователи"},
			{Path: "/security", Label: "Безопасность"},
			{Path: "/settings", Label: "Настройки"},
		}
	case Manager:
		return []MenuItem{
			{Path: "/dashboard", Label: "Дашборд"},
			{Path: "/transactions", Label: "Транзакции"},
			{Path: "/merchants", Label: "Мерчанты"},
			{Path: "/traders", Label: "Трейдеры"},
			{Path: "/disputes", Label: "Споры"},
			{Path: "/stats", Label: "Статистика"},
		}
	case Merchant:
		return []MenuItem{
			{Path: "/dashboard", Label: "Дашборд"},
			{Path: "/transactions", Label: "Транзакции"},
			{Path: "/integration", Label: "Интеграция"},
			{Path: "/widget", Label: "Виджет"},
			{Path: "/disputes", Label: "Споры"},
			{Path: "/balance", Label: "Баланс"},
			{Path: "/withdrawals", Label: "Выводы"},
			{Path: "/settings", Label: "Настройки"},
		}
	case Trader:
		return []MenuItem{
			{Path: "/dashboard", Label: "Дашборд"},
			{Path: "/orders", Label: "Заказы"},
			{Path: "/disputes", Label: "Споры"},
			{Path: "/balance", Label: "Баланс"},
			{Path: "/cards", Label: "Карты"},
			{Path: "/settings", Label: "Настройки"},
		}
	default:
		return nil
	}
}

package postgres

import (
	"testing"

	"github.com/suwityarat/portfolio/config"
)

func TestConnString_Defaults(t *testing.T) {
	got := ConnString(config.PostgresConfig{User: "folio", Database: "ledger"})
	want := "postgres://folio@localhost:5432/ledger?sslmode=disable"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestConnString_EscapesCredentials(t *testing.T) {
	got := ConnString(config.PostgresConfig{
		Host:     "db",
		Port:     6543,
		User:     "folio",
		Password: "p@ss/word",
		Database: "ledger",
		SSLMode:  "require",
	})
	want := "postgres://folio:p@ss%2Fword@db:6543/ledger?sslmode=require"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

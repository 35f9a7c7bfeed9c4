package postgres

import (
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestNormalize(t *testing.T) {
	var (
		numeric any = pgtype.Numeric{Int: big.NewInt(999), Exp: -2, Valid: true}
		text    any = "Blue"
		null    any = pgtype.Numeric{}
		id      int64
	)

	normalize([]any{&numeric, &text, &null, &id})

	if numeric != 9.99 {
		t.Errorf("numeric = %#v, want 9.99", numeric)
	}
	if text != "Blue" {
		t.Errorf("text = %#v, want Blue", text)
	}
	if _, ok := null.(pgtype.Numeric); !ok {
		t.Errorf("null numeric = %#v, want it left untouched", null)
	}
}

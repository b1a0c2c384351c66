package validate_test

import (
	"testing"

	"github.com/ardanlabs/gossipchain/business/sys/validate"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
)

func Test_Check(t *testing.T) {
	tt := []struct {
		name   string
		value  database.SignedTx
		fields []string
	}{
		{"complete", database.SignedTx{PublicKey: "0x04", Signature: "0x01", Transaction: database.NewTx("a", "b", 1)}, nil},
		{"missing-signature", database.SignedTx{PublicKey: "0x04", Transaction: database.NewTx("a", "b", 1)}, []string{"signature"}},
		{"missing-recipient", database.SignedTx{PublicKey: "0x04", Signature: "0x01", Transaction: database.NewTx("a", "", 1)}, []string{"recipient"}},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			err := validate.Check(tst.value)
			if len(tst.fields) == 0 {
				if err != nil {
					t.Fatalf("Should pass validation: %s", err)
				}
				return
			}

			if !validate.IsFieldErrors(err) {
				t.Fatalf("Should get field errors, got %v.", err)
			}

			fields := validate.GetFieldErrors(err).Fields()
			for _, name := range tst.fields {
				if _, exists := fields[name]; !exists {
					t.Fatalf("Should report field %q, got %v.", name, fields)
				}
			}
		}

		t.Run(tst.name, f)
	}
}

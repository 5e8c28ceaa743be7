package procgen

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"list", KindList, false},
		{"Add", KindAdd, false},
		{" READ ", KindRead, false},
		{"update", KindUpdate, false},
		{"delete", KindDelete, false},
		{"upsert", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownKind) {
					t.Fatalf("ParseKind(%q) error = %v, want ErrUnknownKind", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKind(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseKinds(t *testing.T) {
	got, err := ParseKinds(nil)
	if err != nil {
		t.Fatalf("ParseKinds(nil) error = %v", err)
	}
	if !reflect.DeepEqual(got, AllKinds) {
		t.Errorf("ParseKinds(nil) = %v, want %v", got, AllKinds)
	}

	got, err = ParseKinds([]string{"delete", "list"})
	if err != nil {
		t.Fatalf("ParseKinds() error = %v", err)
	}
	if want := []Kind{KindDelete, KindList}; !reflect.DeepEqual(got, want) {
		t.Errorf("ParseKinds() = %v, want %v", got, want)
	}

	if _, err := ParseKinds([]string{"list", "bogus"}); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKinds() error = %v, want ErrUnknownKind", err)
	}
}

func TestKindStrings(t *testing.T) {
	if got := KindUpdate.Title(); got != "Update" {
		t.Errorf("KindUpdate.Title() = %q, want %q", got, "Update")
	}
	if got := Kind(9).String(); got != "Kind(9)" {
		t.Errorf("Kind(9).String() = %q", got)
	}
}

func TestDefaultPrefix(t *testing.T) {
	tests := []struct {
		table string
		want  string
	}{
		{"users", "User_"},
		{"order_items", "OrderItem_"},
		{"categories", "Category_"},
		{"person", "Person_"},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			if got := DefaultPrefix(tt.table); got != tt.want {
				t.Errorf("DefaultPrefix(%q) = %q, want %q", tt.table, got, tt.want)
			}
		})
	}
}

func TestPlan(t *testing.T) {
	confirm := confirmName(t)
	jobs := Plan("users", "User_", confirm)

	if len(jobs) != len(AllKinds) {
		t.Fatalf("Plan() returned %d jobs, want %d", len(jobs), len(AllKinds))
	}

	wantNames := []string{"User_List", "User_Add", "User_Read", "User_Update", "User_Delete"}
	wantConfirmProc := []string{"", "User_List", "", "User_List", ""}
	wantConfirm := []bool{false, false, true, true, true}

	for i, job := range jobs {
		if job.Kind != AllKinds[i] {
			t.Errorf("jobs[%d].Kind = %v, want %v", i, job.Kind, AllKinds[i])
		}
		if job.Table != "users" {
			t.Errorf("jobs[%d].Table = %q", i, job.Table)
		}
		if job.ProcName != wantNames[i] {
			t.Errorf("jobs[%d].ProcName = %q, want %q", i, job.ProcName, wantNames[i])
		}
		if job.ConfirmProc != wantConfirmProc[i] {
			t.Errorf("jobs[%d].ConfirmProc = %q, want %q", i, job.ConfirmProc, wantConfirmProc[i])
		}
		if got := len(job.Confirm) > 0; got != wantConfirm[i] {
			t.Errorf("jobs[%d] has confirm fields = %v, want %v", i, got, wantConfirm[i])
		}
	}
}

func TestPlan_SubsetKeepsOrder(t *testing.T) {
	jobs := Plan("users", "u_", nil, KindDelete, KindAdd)
	if len(jobs) != 2 {
		t.Fatalf("Plan() returned %d jobs, want 2", len(jobs))
	}
	if jobs[0].ProcName != "u_Delete" || jobs[1].ProcName != "u_Add" {
		t.Errorf("Plan() names = %q, %q", jobs[0].ProcName, jobs[1].ProcName)
	}
}

func TestWriteScript(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteScript(&buf, "$$", []byte("BODY\n")); err != nil {
		t.Fatalf("WriteScript() error = %v", err)
	}
	want := "DELIMITER $$\n\nBODY\n\nDELIMITER ;\n"
	if buf.String() != want {
		t.Errorf("WriteScript() = %q, want %q", buf.String(), want)
	}
}

package sqlguard

import (
	"testing"
)

func TestCapRowCount_InsertsTop(t *testing.T) {
	rewritten, capped := CapRowCount("SELECT * FROM Orders", 1000)
	if !capped {
		t.Error("expected cap to be reported as applied")
	}
	if rewritten != "SELECT TOP 1000 * FROM Orders" {
		t.Errorf("got %q", rewritten)
	}
}

func TestCapRowCount_PreservesCasingAfterRewrite(t *testing.T) {
	rewritten, capped := CapRowCount("select id from Orders", 50)
	if !capped {
		t.Error("expected cap applied")
	}
	if rewritten != "select TOP 50 id from Orders" {
		t.Errorf("got %q", rewritten)
	}
}

func TestCapRowCount_TrustsExistingTop(t *testing.T) {
	original := "SELECT TOP 10 * FROM Orders"
	rewritten, capped := CapRowCount(original, 1000)
	if capped {
		t.Error("expected no cap when statement has its own TOP clause")
	}
	if rewritten != original {
		t.Errorf("statement changed: %q", rewritten)
	}
}

func TestCapRowCount_Idempotent(t *testing.T) {
	once, _ := CapRowCount("SELECT * FROM Orders", 1000)
	twice, capped := CapRowCount(once, 1000)
	if capped {
		t.Error("second rewrite should be a no-op")
	}
	if twice != once {
		t.Errorf("rewriting twice changed statement: %q vs %q", twice, once)
	}
}

func TestBuildTopQuery_Defaults(t *testing.T) {
	got := BuildTopQuery("Orders", "", 100)
	if got != "SELECT TOP 100 * FROM [Orders]" {
		t.Errorf("got %q", got)
	}
}

func TestBuildTopQuery_ClampsRowCount(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want string
	}{
		{name: "below minimum", n: 0, want: "SELECT TOP 1 * FROM [Orders]"},
		{name: "negative", n: -50, want: "SELECT TOP 1 * FROM [Orders]"},
		{name: "above maximum", n: 99999, want: "SELECT TOP 1000 * FROM [Orders]"},
		{name: "in range", n: 250, want: "SELECT TOP 250 * FROM [Orders]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildTopQuery("Orders", "", tt.n); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildTopQuery_Projection(t *testing.T) {
	tests := []struct {
		name    string
		columns string
		want    string
	}{
		{
			name:    "clean column list used verbatim",
			columns: "id, name, total",
			want:    "SELECT TOP 10 id, name, total FROM [Orders]",
		},
		{
			name:    "star projection",
			columns: "*",
			want:    "SELECT TOP 10 * FROM [Orders]",
		},
		{
			name:    "injection attempt falls back to star",
			columns: "name; DROP TABLE x",
			want:    "SELECT TOP 10 * FROM [Orders]",
		},
		{
			name:    "parenthesized expression falls back to star",
			columns: "COUNT(id)",
			want:    "SELECT TOP 10 * FROM [Orders]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildTopQuery("Orders", tt.columns, 10); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

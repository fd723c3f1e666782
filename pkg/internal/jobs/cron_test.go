package jobs

import "testing"

func TestDailyAtToCron(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"03:00", "0 3 * * *", false},
		{"23:59", "59 23 * * *", false},
		{"0:5", "5 0 * * *", false},
		{"24:00", "", true},
		{"12:60", "", true},
		{"noon", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := dailyAtToCron(tc.in)

		if tc.wantErr {
			if err == nil {
				t.Errorf("dailyAtToCron(%q) expected error, got %q", tc.in, got)
			}

			continue
		}

		if err != nil {
			t.Errorf("dailyAtToCron(%q): %v", tc.in, err)

			continue
		}

		if got != tc.want {
			t.Errorf("dailyAtToCron(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

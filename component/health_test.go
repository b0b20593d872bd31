package component

import "testing"

func TestHealthApplyDamage(t *testing.T) {
	cases := []struct {
		name      string
		max       float64
		hits      []float64
		wantHP    float64
		wantDeath int
	}{
		{"partial", 100, []float64{25, 25}, 50, 0},
		{"exact_kill", 100, []float64{50, 50}, 0, 1},
		{"overkill_clamps", 100, []float64{250}, 0, 1},
		{"hits_after_death_ignored", 50, []float64{50, 10, 10}, 0, 1},
		{"non_positive_ignored", 10, []float64{0, -5}, 10, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := NewHealth(c.max)
			deaths := 0
			h.OnDeath = func(*Health) { deaths++ }
			for _, d := range c.hits {
				h.ApplyDamage(d)
			}
			if h.Current != c.wantHP {
				t.Fatalf("expected hp %v, got %v", c.wantHP, h.Current)
			}
			if deaths != c.wantDeath {
				t.Fatalf("expected %d deaths, got %d", c.wantDeath, deaths)
			}
		})
	}
}

func TestHealthReset(t *testing.T) {
	h := NewHealth(80)
	h.ApplyDamage(80)
	if h.IsAlive() {
		t.Fatalf("expected dead after full damage")
	}
	h.Reset()
	if !h.IsAlive() || h.Current != 80 {
		t.Fatalf("Reset should restore max, got %v", h.Current)
	}
	if h.Fraction() != 1 {
		t.Fatalf("expected full fraction, got %v", h.Fraction())
	}
}

func TestHealthSetMaxClampsCurrent(t *testing.T) {
	h := NewHealth(100)
	h.SetMaxHP(40)
	if h.Current != 40 {
		t.Fatalf("expected current clamped to 40, got %v", h.Current)
	}
	h.ApplyDamage(30)
	h.Heal(100)
	if h.Current != 40 {
		t.Fatalf("heal should cap at max, got %v", h.Current)
	}
}

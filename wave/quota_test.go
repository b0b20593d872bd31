package wave

import "testing"

func TestScriptQuota(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		wave    int
		want    int
		wantErr bool
	}{
		{"linear", "quota := base + wave * increment", 2, 50, false},
		{"doubling", "quota := base\nfor i := 1; i < wave; i++ { quota *= 2 }", 3, 120, false},
		{"stdlib_import", "math := import(\"math\")\nquota := int(math.sqrt(wave * 100)) + base", 4, 50, false},
		{"missing_quota", "x := 1", 1, 0, true},
		{"syntax_error", "quota := (", 1, 0, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fn, err := ScriptQuota(c.name, []byte(c.src))
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ScriptQuota: %v", err)
			}
			got, err := fn(c.wave, 30, 10)
			if err != nil {
				t.Fatalf("quota: %v", err)
			}
			if got != c.want {
				t.Fatalf("expected %d, got %d", c.want, got)
			}
		})
	}
}

func TestSchedulerUsesQuotaScript(t *testing.T) {
	fn, err := ScriptQuota("fixed", []byte("quota := 7"))
	if err != nil {
		t.Fatalf("ScriptQuota: %v", err)
	}
	s, _ := newTestScheduler(t, Config{BaseEnemies: 30, IncrementPerWave: 10}, 1, 1, WithQuota(fn))
	s.Start()
	if s.Quota() != 7 {
		t.Fatalf("expected scripted quota 7, got %d", s.Quota())
	}

	s.SetQuotaFunc(nil)
	if s.Quota() != 7 {
		t.Fatalf("current wave keeps its quota, got %d", s.Quota())
	}
	s.ForceNextWave()
	s.Update(0)
	if s.WaveCount() != 2 || s.Quota() != 50 {
		t.Fatalf("expected linear quota 50 for wave 2, got wave %d quota %d", s.WaveCount(), s.Quota())
	}
}

func TestFailingQuotaFallsBackToLinear(t *testing.T) {
	failing := func(wave, base, increment int) (int, error) {
		return 0, ErrBadConfig
	}
	s, _ := newTestScheduler(t, Config{BaseEnemies: 5, IncrementPerWave: 1}, 1, 1, WithQuota(failing))
	s.Start()
	if s.Quota() != 6 {
		t.Fatalf("expected fallback quota 6, got %d", s.Quota())
	}
}

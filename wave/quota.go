package wave

import (
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// QuotaFunc returns how many enemies wave spawns.
type QuotaFunc func(wave, base, increment int) (int, error)

// LinearQuota is base + wave*increment.
func LinearQuota(wave, base, increment int) (int, error) {
	return base + wave*increment, nil
}

// ScriptQuota compiles a tengo script that reads wave, base and increment
// and assigns quota.
func ScriptQuota(name string, src []byte) (QuotaFunc, error) {
	script := tengo.NewScript(src)
	_ = script.Add("wave", 0)
	_ = script.Add("base", 0)
	_ = script.Add("increment", 0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("wave: compile quota script %s: %w", name, err)
	}

	fn := func(wave, base, increment int) (int, error) {
		if err := compiled.Set("wave", wave); err != nil {
			return 0, err
		}
		if err := compiled.Set("base", base); err != nil {
			return 0, err
		}
		if err := compiled.Set("increment", increment); err != nil {
			return 0, err
		}
		if err := compiled.Run(); err != nil {
			return 0, fmt.Errorf("wave: run quota script %s: %w", name, err)
		}
		if !compiled.IsDefined("quota") {
			return 0, fmt.Errorf("wave: quota script %s does not define quota", name)
		}
		return compiled.Get("quota").Int(), nil
	}
	if _, err := fn(1, 0, 0); err != nil {
		return nil, err
	}
	return fn, nil
}

func (s *Scheduler) computeQuota(wave int) int {
	base, inc := s.cfg.BaseEnemies, s.cfg.IncrementPerWave
	if s.quotaFn != nil {
		q, err := s.quotaFn(wave, base, inc)
		if err == nil {
			return max(q, 0)
		}
		log.Printf("WaveScheduler: quota script failed for wave %d, using linear quota: %v", wave, err)
	}
	q, _ := LinearQuota(wave, base, inc)
	return max(q, 0)
}

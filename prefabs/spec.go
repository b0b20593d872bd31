package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SimSpecFile is the default simulation spec.
const SimSpecFile = "wavesim.yaml"

var (
	ErrNoWalkable = errors.New("prefabs: navigation needs at least one walkable box")
	ErrBadBox     = errors.New("prefabs: box min must be below max")
	ErrBadRoaming = errors.New("prefabs: roaming min_distance must be in [0, max_distance]")
	ErrBadWave    = errors.New("prefabs: wave values must not be negative")
	ErrBadEnemy   = errors.New("prefabs: invalid enemy")
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type SimSpec struct {
	Name        string           `yaml:"name"`
	Seed        uint64           `yaml:"seed"`
	FixedStep   float64          `yaml:"fixed_step"`
	Wave        WaveSpec         `yaml:"wave"`
	Roaming     RoamingSpec      `yaml:"roaming"`
	Navigation  NavigationSpec   `yaml:"navigation"`
	SpawnPoints []SpawnPointSpec `yaml:"spawn_points"`
	Enemies     []EnemySpec      `yaml:"enemies"`
}

// WaveSpec uses pointers so an explicit zero is kept while a missing key
// takes the default.
type WaveSpec struct {
	TimeBetweenWaves  *float64 `yaml:"time_between_waves"`
	TimeBetweenSpawns *float64 `yaml:"time_between_spawns"`
	BaseEnemies       *int     `yaml:"base_enemies"`
	IncrementPerWave  *int     `yaml:"increment_per_wave"`
	QuotaScript       string   `yaml:"quota_script"`
}

type RoamingSpec struct {
	MinDistance      *float64 `yaml:"min_distance"`
	MaxDistance      *float64 `yaml:"max_distance"`
	ArrivalThreshold float64  `yaml:"arrival_threshold"`
	SampleRadius     float64  `yaml:"sample_radius"`
	BatchSize        int      `yaml:"batch_size"`
	Workers          int      `yaml:"workers"`
}

type NavigationSpec struct {
	CellSize float64   `yaml:"cell_size"`
	MaxNodes int       `yaml:"max_nodes"`
	Bounds   BoxSpec   `yaml:"bounds"`
	Walkable []BoxSpec `yaml:"walkable"`
}

type BoxSpec struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

func (b BoxSpec) valid() bool {
	return b.MinX < b.MaxX && b.MinY < b.MaxY
}

type SpawnPointSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Rotation float64 `yaml:"rotation"`
}

// EnemySpec describes one enemy prototype. A zero RoamingRadius falls back
// to roaming.sample_radius.
type EnemySpec struct {
	Name          string    `yaml:"name"`
	Prewarm       *int      `yaml:"prewarm"`
	MaxHealth     float64   `yaml:"max_health"`
	MoveSpeed     float64   `yaml:"move_speed"`
	RotationSpeed float64   `yaml:"rotation_speed"`
	IdleTime      *float64  `yaml:"idle_time"`
	RoamingRadius float64   `yaml:"roaming_radius"`
	Color         YAMLColor `yaml:"color"`
}

// LoadSimSpec loads a spec by name through Load and validates it.
func LoadSimSpec(name string) (*SimSpec, error) {
	spec, err := LoadSpec[SimSpec](name)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", name, err)
	}
	return &spec, nil
}

// LoadSimSpecFile loads a spec from an explicit path.
func LoadSimSpecFile(path string) (*SimSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", path, err)
	}
	return ParseSimSpec(path, data)
}

func ParseSimSpec(name string, data []byte) (*SimSpec, error) {
	var spec SimSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal %s: %w", name, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", name, err)
	}
	return &spec, nil
}

// Validate fills defaults and rejects values the simulation cannot run with.
func (s *SimSpec) Validate() error {
	if s.FixedStep <= 0 {
		s.FixedStep = 0.02
	}
	if err := s.Wave.validate(); err != nil {
		return err
	}
	if err := s.Roaming.validate(); err != nil {
		return err
	}
	if err := s.Navigation.validate(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(s.Enemies))
	for i := range s.Enemies {
		e := &s.Enemies[i]
		if err := e.validate(); err != nil {
			return err
		}
		if seen[e.Name] {
			return fmt.Errorf("%w: duplicate name %q", ErrBadEnemy, e.Name)
		}
		seen[e.Name] = true
	}
	return nil
}

func (w *WaveSpec) validate() error {
	if w.TimeBetweenWaves == nil {
		w.TimeBetweenWaves = float64Ptr(5)
	}
	if w.TimeBetweenSpawns == nil {
		w.TimeBetweenSpawns = float64Ptr(0.1)
	}
	if w.BaseEnemies == nil {
		w.BaseEnemies = intPtr(30)
	}
	if w.IncrementPerWave == nil {
		w.IncrementPerWave = intPtr(10)
	}
	if *w.TimeBetweenWaves < 0 || *w.TimeBetweenSpawns < 0 || *w.BaseEnemies < 0 || *w.IncrementPerWave < 0 {
		return ErrBadWave
	}
	return nil
}

func (r *RoamingSpec) validate() error {
	if r.MinDistance == nil {
		r.MinDistance = float64Ptr(5)
	}
	if r.MaxDistance == nil {
		r.MaxDistance = float64Ptr(15)
	}
	if r.ArrivalThreshold <= 0 {
		r.ArrivalThreshold = 0.5
	}
	if r.SampleRadius <= 0 {
		r.SampleRadius = 15
	}
	if r.BatchSize <= 0 {
		r.BatchSize = 32
	}
	if *r.MinDistance < 0 || *r.MaxDistance < *r.MinDistance {
		return fmt.Errorf("%w: min=%v max=%v", ErrBadRoaming, *r.MinDistance, *r.MaxDistance)
	}
	return nil
}

func (n *NavigationSpec) validate() error {
	if n.CellSize <= 0 {
		n.CellSize = 1
	}
	if len(n.Walkable) == 0 {
		return ErrNoWalkable
	}
	for i, b := range n.Walkable {
		if !b.valid() {
			return fmt.Errorf("%w: walkable[%d] %+v", ErrBadBox, i, b)
		}
	}
	if !n.Bounds.valid() {
		n.Bounds = n.Walkable[0]
		for _, b := range n.Walkable[1:] {
			n.Bounds.MinX = min(n.Bounds.MinX, b.MinX)
			n.Bounds.MinY = min(n.Bounds.MinY, b.MinY)
			n.Bounds.MaxX = max(n.Bounds.MaxX, b.MaxX)
			n.Bounds.MaxY = max(n.Bounds.MaxY, b.MaxY)
		}
	}
	return nil
}

func (e *EnemySpec) validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrBadEnemy)
	}
	if e.Prewarm == nil {
		e.Prewarm = intPtr(150)
	}
	if *e.Prewarm < 0 {
		return fmt.Errorf("%w: %s prewarm %d", ErrBadEnemy, e.Name, *e.Prewarm)
	}
	if e.MaxHealth <= 0 {
		e.MaxHealth = 100
	}
	if e.MoveSpeed <= 0 {
		e.MoveSpeed = 3.5
	}
	if e.RotationSpeed <= 0 {
		e.RotationSpeed = 120
	}
	if e.IdleTime == nil {
		e.IdleTime = float64Ptr(2)
	}
	if *e.IdleTime < 0 {
		return fmt.Errorf("%w: %s idle_time %v", ErrBadEnemy, e.Name, *e.IdleTime)
	}
	if e.Color.Color == nil {
		e.Color.Color = color.NRGBA{R: 224, G: 72, B: 72, A: 255}
	}
	return nil
}

// QuotaScriptSource returns the configured quota script, or nil when the
// linear formula should be used.
func (s *SimSpec) QuotaScriptSource() ([]byte, error) {
	if s.Wave.QuotaScript == "" {
		return nil, nil
	}
	data, err := LoadScript(s.Wave.QuotaScript)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load script %s: %w", s.Wave.QuotaScript, err)
	}
	return data, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

func intPtr(i int) *int {
	return &i
}

func float64Ptr(f float64) *float64 {
	return &f
}

package services

import (
	_ "embed"
	"fmt"
	"math/rand"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

// templatePools maps an emotion key to its description templates. Keys not
// present fall back to the "default" pool.
type templatePools map[string][]string

func loadTemplatePools() (templatePools, error) {
	pools := templatePools{}
	if err := yaml.Unmarshal(templatesYAML, &pools); err != nil {
		return nil, fmt.Errorf("parse embedded templates: %w", err)
	}
	if len(pools["default"]) == 0 {
		return nil, fmt.Errorf("embedded templates missing default pool")
	}
	return pools, nil
}

// pick samples one template for the emotion from the injected random
// source and fills in the star's display name.
func (p templatePools) pick(emotionKey, displayName string, rnd *rand.Rand) string {
	pool, ok := p[emotionKey]
	if !ok || len(pool) == 0 {
		pool = p["default"]
	}
	return fmt.Sprintf(pool[rnd.Intn(len(pool))], displayName)
}

package config

import (
	"github.com/pelletier/go-toml/v2"
)

// TOML 是基于 go-toml/v2 的 koanf.Parser。
type TOML struct{}

// TOMLParser 返回 TOML 解析器。
func TOMLParser() *TOML {
	return &TOML{}
}

func (p *TOML) Unmarshal(b []byte) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := toml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *TOML) Marshal(o map[string]interface{}) ([]byte, error) {
	return toml.Marshal(o)
}

package blaze

import (
	"encoding/json"
	"os"
)

// Config is the JSON-driven runtime configuration described in §6. No
// third-party JSON/config library appears anywhere in the retrieved
// example pack, so this follows the stdlib encoding/json route.
type Config struct {
	K                  int     `json:"K"`
	WritePosIndices    bool    `json:"write_pos_indices"`
	RunQueryExpansion  bool    `json:"run_query_expansion"`
	RunRocchio         bool    `json:"run_rocchio"`
	RocchioAlpha       float64 `json:"rocchio_alpha"`
	RocchioBeta        float64 `json:"rocchio_beta"`
	ConventionalRocchio bool   `json:"conventional_rocchio"`

	ChampionFile   string `json:"champion"`
	LengthsFile    string `json:"lengths"`
	StopWordsFile  string `json:"stop_words"`
	ThesaurusFile  string `json:"thesaurus"`
	DictionaryFile string `json:"dictionary"`
	PostingsFile   string `json:"postings"`
}

// DefaultConfig mirrors original_source/Config.py's defaults where the
// spec names one (K=1000), and otherwise picks the conservative option
// (feedback and expansion off by default, faithful Rocchio formula).
func DefaultConfig() *Config {
	return &Config{
		K:                   1000,
		WritePosIndices:     true,
		RunQueryExpansion:   false,
		RunRocchio:          false,
		RocchioAlpha:        1.0,
		RocchioBeta:         0.75,
		ConventionalRocchio: false,
		ChampionFile:        "champion.txt",
		LengthsFile:         "lengths.txt",
		StopWordsFile:       "stopwords.txt",
		ThesaurusFile:       "thesaurus.json",
		DictionaryFile:      "dictionary.txt",
		PostingsFile:        "postings.txt",
	}
}

// LoadConfig reads a JSON config file, falling back to DefaultConfig for
// any field left unset in the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Rocchio extracts the RocchioParams this config describes.
func (c *Config) Rocchio() RocchioParams {
	return RocchioParams{
		Alpha:        c.RocchioAlpha,
		Beta:         c.RocchioBeta,
		Conventional: c.ConventionalRocchio,
	}
}

package modern

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/CK6170/GazeCal-go/models"
)

// LoadParameters reads a parameters JSON file. Missing fields fall back to
// models.DefaultParameters.
func LoadParameters(path string) (*models.PARAMETERS, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeParameters(b)
}

// DecodeParameters parses and validates parameters JSON.
func DecodeParameters(b []byte) (*models.PARAMETERS, error) {
	p := models.DefaultParameters()
	if err := json.Unmarshal(b, p); err != nil {
		return nil, err
	}
	if err := ValidateParameters(p); err != nil {
		return nil, err
	}
	return p, nil
}

func ValidateParameters(p *models.PARAMETERS) error {
	if p == nil {
		return fmt.Errorf("parameters nil")
	}
	if p.GRID < 2 {
		return fmt.Errorf("GRID must be >= 2, got %d", p.GRID)
	}
	if p.GRID*p.GRID < models.FeatureCount {
		return fmt.Errorf("GRID %d gives %d targets, need at least %d", p.GRID, p.GRID*p.GRID, models.FeatureCount)
	}
	if p.JITTER < 0 {
		return fmt.Errorf("JITTER must be >= 0")
	}
	if p.RIDGE < 0 {
		return fmt.Errorf("RIDGE must be >= 0")
	}
	if p.GLINT == nil {
		return fmt.Errorf("missing GLINT in JSON")
	}
	if p.SCALE == nil {
		return fmt.Errorf("missing SCALE in JSON")
	}
	return nil
}

func PersistParameters(path string, p *models.PARAMETERS) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JakWdo/envfilter/internal/store"
	"github.com/JakWdo/envfilter/internal/tag"
)

var loadDB string

var loadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load tagged resources from a YAML file into the database",
	Args:  cobra.ExactArgs(1),
	Example: `  envfilter load personas.yaml
  envfilter load -d /var/lib/envfilter/envfilter.db personas.yaml`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVarP(&loadDB, "db", "d", "envfilter.db", "Path to the sqlite database")
}

// seedFile is the YAML document accepted by load.
type seedFile struct {
	EnvironmentID string         `yaml:"environment_id"`
	Resources     []seedResource `yaml:"resources"`
}

type seedResource struct {
	ID   string   `yaml:"id"` // generated when omitted
	Type string   `yaml:"type"`
	Tags []string `yaml:"tags"`
}

func parseSeedFile(data []byte) (*seedFile, error) {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if seed.EnvironmentID == "" {
		return nil, fmt.Errorf("seed file is missing environment_id")
	}
	for i := range seed.Resources {
		if seed.Resources[i].ID == "" {
			seed.Resources[i].ID = uuid.NewString()
		}
		if _, err := store.ParseResourceType(seed.Resources[i].Type); err != nil {
			return nil, fmt.Errorf("resource %s: %w", seed.Resources[i].ID, err)
		}
	}
	return &seed, nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	seed, err := parseSeedFile(data)
	if err != nil {
		return err
	}

	st, err := store.OpenSQLite(loadDB)
	if err != nil {
		return err
	}
	defer st.Close()

	now := time.Now().UTC()
	for _, r := range seed.Resources {
		err := st.PutResource(cmd.Context(), store.Resource{
			ID:            r.ID,
			EnvironmentID: seed.EnvironmentID,
			Type:          store.ResourceType(r.Type),
			Tags:          tag.ParseSet(r.Tags...),
			CreatedAt:     now,
		})
		if err != nil {
			return err
		}
	}

	fmt.Printf("loaded %d resources into environment %s\n", len(seed.Resources), seed.EnvironmentID)
	return nil
}

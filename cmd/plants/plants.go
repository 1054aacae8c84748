// Package plants implements the command that lists the plants and disease
// classes the local model covers.
package plants

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Preetham2004H/plant-ml/internal/catalog"
	"github.com/Preetham2004H/plant-ml/internal/conf"
)

// Command creates the plants command.
func Command(settings *conf.Settings) *cobra.Command {
	var showClasses bool

	cmd := &cobra.Command{
		Use:   "plants",
		Short: "List supported plants and their disease classes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := catalog.New()
			for _, plant := range cat.Plants() {
				classes := cat.ClassesFor(plant)
				fmt.Printf("%s (%d classes)\n", plant, len(classes))
				if showClasses {
					for _, class := range classes {
						fmt.Printf("  %3d  %s\n", class.Index, catalog.DiseaseName(class.Label))
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showClasses, "classes", false, "Show the disease classes of each plant")
	return cmd
}

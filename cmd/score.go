package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/nuts-foundation/charm-calculator/lib/charm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var flagUsage = map[charm.Factor]string{
	charm.Chills:      "Chills factor is present: the patient does NOT have chills",
	charm.Hypothermia: "Hypothermia factor is present: body temperature below 36 degrees Celsius",
	charm.Anemia:      "Anemia factor is present: RBC count below 4 million per uL",
	charm.RDW:         "RDW factor is present: red cell distribution width above 14.5%",
	charm.Malignancy:  "Malignancy factor is present: history of malignancy",
}

func newScoreCmd() *cobra.Command {
	var output string
	present := make(map[charm.Factor]*bool, len(charm.Factors))

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Calculate the CHARM score of manually entered risk factors",
		Example: `  charm score --hypothermia --anemia
  charm score --chills --rdw --output yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var factors charm.RiskFactors
			for factor, value := range present {
				factors = factors.Set(factor, *value)
			}
			result, err := charm.Evaluate(factors)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), output, result)
		},
	}
	for _, factor := range charm.Factors {
		present[factor] = cmd.Flags().Bool(factor.Key(), false, flagUsage[factor])
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json or yaml")
	return cmd
}

func writeResult(w io.Writer, format string, result charm.Result) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(result)
	case "text":
		for _, factor := range charm.Factors {
			answer := "No"
			if result.Factors.Get(factor) {
				answer = "Yes"
			}
			if _, err := fmt.Fprintf(w, "%-50s %s\n", factor.Label(), answer); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "\nCHARM score: %d of %d\nPredicted in-hospital mortality: %s%%\n",
			result.Points, charm.MaxPoints, strconv.FormatFloat(result.Mortality, 'f', -1, 64))
		return err
	}
	return fmt.Errorf("unsupported output format: %s", format)
}

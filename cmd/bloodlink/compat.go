package main

import (
	"fmt"
	"strings"

	"bloodlink/internal/engine"
	"bloodlink/pkg/types"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var compatCommand = &cli.Command{
	Name:      "compat",
	Usage:     "Print the blood type compatibility matrix, or the sets for one type",
	ArgsUsage: "[blood type]",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "raw",
			Usage: "Dump the donor and recipient sets instead of a table",
		},
	},
	Action: func(c *cli.Context) error {
		bloodTypes := types.AllBloodTypes
		if c.Args().Present() {
			bt, err := types.ParseBloodType(c.Args().First())
			if err != nil {
				return err
			}
			bloodTypes = []types.BloodType{bt}
		}

		if c.Bool("raw") {
			sets := make(map[types.BloodType]map[string][]types.BloodType, len(bloodTypes))
			for _, bt := range bloodTypes {
				donors, err := engine.CompatibleDonors(bt)
				if err != nil {
					return err
				}
				recipients, err := engine.CompatibleRecipients(bt)
				if err != nil {
					return err
				}
				sets[bt] = map[string][]types.BloodType{
					"receivesFrom": donors,
					"donatesTo":    recipients,
				}
			}
			pp.Println(sets)
			return nil
		}

		fmt.Fprint(c.App.Writer, matrix(bloodTypes))
		return nil
	},
}

// matrix renders recipients as rows and donors as columns.
func matrix(recipients []types.BloodType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-5s", "")
	for _, donor := range types.AllBloodTypes {
		fmt.Fprintf(&b, "%4s", donor)
	}
	b.WriteString("\n")

	for _, recipient := range recipients {
		fmt.Fprintf(&b, "%-5s", recipient)
		for _, donor := range types.AllBloodTypes {
			ok, _ := engine.IsCompatible(recipient, donor)
			mark := "."
			if ok {
				mark = "x"
			}
			fmt.Fprintf(&b, "%4s", mark)
		}
		b.WriteString("\n")
	}
	return b.String()
}

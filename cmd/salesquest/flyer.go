// ABOUTME: CLI command for sharing a property listing flyer by email.
// ABOUTME: Prints a Gmail compose link prefilled with the listing details.
package main

import (
	"fmt"

	"github.com/harperreed/salesquest/internal/flyer"
	"github.com/spf13/cobra"
)

var listing flyer.Listing

var flyerCmd = &cobra.Command{
	Use:         "flyer",
	Short:       "Build an email link for a property listing",
	Annotations: noStorage(),
	Long: `Build a Gmail compose link for a property listing flyer.

Open the printed link in a browser to review and send the email.
Phone and DRE numbers keep digits only.

EXAMPLES:

  salesquest flyer --title "Sunny 3BR" --address "12 Elm St" --price '$750,000' \
    --beds 3 --baths 2.5 --agent "Pat Lee" --phone "(559) 555-0142" --dre 01234567`,
	RunE: func(cmd *cobra.Command, args []string) error {
		link, err := flyer.ComposeURL(listing)
		if err != nil {
			return err
		}
		logger.Debug().Str("title", listing.Title).Msg("flyer link built")
		fmt.Fprintln(cmd.OutOrStdout(), link)
		return nil
	},
}

func init() {
	f := flyerCmd.Flags()
	f.StringVar(&listing.Title, "title", "", "listing title (required)")
	f.StringVar(&listing.Description, "description", "", "listing description")
	f.StringVar(&listing.Address, "address", "", "property address")
	f.StringVar(&listing.ListPrice, "price", "", "list price")
	f.StringVar(&listing.LivingSpace, "living-space", "", "living space in sq ft")
	f.StringVar(&listing.LotSize, "lot-size", "", "lot size in sq ft")
	f.StringVar(&listing.Bedrooms, "beds", "", "bedrooms")
	f.StringVar(&listing.Bathrooms, "baths", "", "bathrooms")
	f.StringVar(&listing.Website, "website", "", "property website URL")
	f.StringVar(&listing.AgentName, "agent", "", "agent name")
	f.StringVar(&listing.AgentEmail, "agent-email", "", "agent email")
	f.StringVar(&listing.AgentNumber, "phone", "", "agent phone number")
	f.StringVar(&listing.AgentDRE, "dre", "", "agent DRE license number")
	rootCmd.AddCommand(flyerCmd)
}

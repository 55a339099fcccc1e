package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/mtgio/pkg/mtg"
)

// NewCardsCommand creates the cards command group.
func NewCardsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cards",
		Aliases: []string{"card"},
		Short:   "Look up cards",
	}

	cmd.AddCommand(newCardsGetCommand())

	return cmd
}

func newCardsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get CARD_ID...",
		Short: "Get card details",
		Long:  "Display a card by its multiverse id or card id, or a table of several cards fetched concurrently",
		Example: `  mtgio cards get 386616
  mtgio cards get 386616 386627`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := requireKeys(args, ErrCardIDArgument)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()

			client, closeClient, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer closeClient()

			if len(ids) == 1 {
				resp, err := client.Cards().Get(ctx, ids[0])
				if err != nil {
					return fmt.Errorf("failed to get card: %w", err)
				}

				return renderResponse(cmd.OutOrStdout(), resp, renderCardDetails)
			}

			builder := mtg.NewBatchBuilder()
			for _, id := range ids {
				builder.AddGetCard(id, id)
			}

			cards, err := collectBatch[mtg.Card](ctx, client, builder.Build())
			if err != nil {
				return fmt.Errorf("failed to get cards: %w", err)
			}

			return renderResponse(cmd.OutOrStdout(), &mtg.Response[[]mtg.Card]{Content: cards}, renderCardsTable)
		},
	}
}

func renderCardDetails(w io.Writer, card mtg.Card) error {
	table := newTable(w, "Property", "Value")

	_ = table.Append("Name", card.Name)
	_ = table.Append("Mana Cost", orNotAvailable(card.ManaCost))
	_ = table.Append("Type", card.Type)
	_ = table.Append("Rarity", card.Rarity)
	_ = table.Append("Set", fmt.Sprintf("%s (%s)", card.SetName, card.Set))
	_ = table.Append("Text", orNotAvailable(card.Text))

	if card.Power != "" || card.Toughness != "" {
		_ = table.Append("P/T", card.Power+"/"+card.Toughness)
	}

	if card.Loyalty != "" {
		_ = table.Append("Loyalty", card.Loyalty)
	}

	_ = table.Append("Artist", orNotAvailable(card.Artist))
	_ = table.Append("Multiverse ID", orNotAvailable(card.MultiverseID))

	err := renderTable(table)
	if err != nil {
		return err
	}

	if len(card.Legalities) == 0 {
		return nil
	}

	_, _ = fmt.Fprintln(w)

	legalities := newTable(w, "Format", "Legality")
	for _, legality := range card.Legalities {
		_ = legalities.Append(legality.Format, legality.Legality)
	}

	return renderTable(legalities)
}

func renderCardsTable(w io.Writer, cards []mtg.Card) error {
	if len(cards) == 0 {
		_, _ = io.WriteString(w, "No cards found\n")

		return nil
	}

	table := newTable(w, "Name", "Mana Cost", "Type", "Rarity", "Set")

	for _, card := range cards {
		_ = table.Append(card.Name, orNotAvailable(card.ManaCost), card.Type, card.Rarity, card.Set)
	}

	return renderTable(table)
}

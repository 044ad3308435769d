package main

import (
	"github.com/etnz/tally/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the command line for shell completion. Install it with
// COMP_INSTALL=1 tly.
func completion() *complete.Command {
	order := map[string]complete.Predictor{"o": predict.Something}
	buy := map[string]complete.Predictor{
		"o": predict.Something,
		"b": predict.Something,
		"t": predict.Something,
		"q": predict.Something,
		"p": predict.Something,
	}
	topics, _ := docs.GetAllTopics()

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"f":      predict.Files("*.csv"),
			"config": predict.Files("*.yaml"),
		},
		Sub: map[string]*complete.Command{
			"orders": {},
			"positions": {Flags: map[string]complete.Predictor{
				"prices": predict.Files("*.db"),
				"seed":   predict.Nothing,
			}},
			"add-order": {Flags: map[string]complete.Predictor{
				"d": predict.Something,
				"t": predict.Something,
				"q": predict.Something,
				"p": predict.Something,
			}},
			"edit-order": {Flags: map[string]complete.Predictor{
				"o": predict.Something,
				"d": predict.Something,
			}},
			"rm-order": {Flags: order},
			"add-buy":  {Flags: buy},
			"edit-buy": {Flags: buy},
			"rm-buy":   {Flags: map[string]complete.Predictor{"o": predict.Something, "b": predict.Something}},
			"import":   {Args: predict.Files("*")},
			"export":   {Flags: map[string]complete.Predictor{"o": predict.Files("*.csv")}},
			"prices": {Flags: map[string]complete.Predictor{
				"db":   predict.Files("*.db"),
				"seed": predict.Nothing,
				"t":    predict.Something,
			}},
			"serve": {Flags: map[string]complete.Predictor{
				"addr": predict.Something,
				"save": predict.Nothing,
			}},
			"topic": {Flags: map[string]complete.Predictor{"l": predict.Nothing}, Args: predict.Set(append(topics, "*"))},
			"help":  {},
		},
	}
}

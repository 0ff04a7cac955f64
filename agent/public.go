package agent

import (
	"context"

	"github.com/etnz/wealth/docs"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Reports produces the markdown reports the assistant can read.
type Reports interface {
	// Holdings lists the held assets with their current value.
	Holdings(ctx context.Context) (string, error)
	// Analysis breaks down the holdings and scores their diversification.
	Analysis(ctx context.Context) (string, error)
	// Transactions lists the ledger of the asset with the given ID or name.
	Transactions(ctx context.Context, asset string) (string, error)
}

// creates the facilitator
func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here primarily to understand the value, the diversification and the risk of
			the assets they own: stocks, ETFs, crypto, precious metals, bonds, deposits, cash,
			real estate and private investments.

			Devise a plan of questions to ask to each experts and come up with the best reponse to the user's request.
			Always check the holdings first, the user assumes that you know their assets.
			Answer in markdown.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader creates an expert grounded with Google Search.
func NewTrader(model string) *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader,
		Very well aware of all the financial products and institutions,
		about the latest news about the different funds or companies.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a expert in Trading, you can search and find about anything related to
			financial institutions, companies, markets, funds etc. You Leverage Google Search to
			ground your assertions in a solid truth.
			You can get the latests news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// NewAccountant creates the expert that reads the user's assets through reports.
func NewAccountant(model string, reports Reports) *Expert {
	lib := Tools(reports)
	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. They are in charge of reading the user's assets,
		their transactions, their current value and the diversification analysis.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an accountant in charge of the user's assets.
				You know how to use the Tools to extract relevant information about the user's wealth.
				You are part of a team of experts, yours is everything about the user's assets. They might ask
				you questions about the user's assets, pardon their approximative language and figure out what they meant.

				Use the available tools to get information about:
				  - the held assets and their value
				  - the transactions of an asset
				  - the exposure by geography, currency, sector and asset class, and the health score

				Below is how assets are valued and analyzed.

			` + must(docs.GetTopics("valuation", "analysis"))}}},
		},
		Library: NewLibrary(lib),
	}
}

func must(s string, err error) string {
	if err != nil {
		panic(err)
	}
	return s
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

// report wraps a report without arguments into a function.
func report(name, description string, render func(context.Context) (string, error)) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: description,
			Parameters:  &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown report.",
			},
		},
		Func: func(ctx context.Context, id string, _ map[string]any) *genai.FunctionResponse {
			out, err := render(ctx)
			if err != nil {
				return failure(id, name, err)
			}
			return success(id, name, out)
		},
	}
}

// Tools returns the functions giving access to reports.
func Tools(reports Reports) []Function {
	return []Function{
		report("Holdings",
			`Holdings lists every asset currently held, with its class, quantity, price,
			value in its own currency and in the display currency, and its weight.`,
			reports.Holdings),
		report("Analysis",
			`Analysis breaks down the held assets by asset class, geography, currency and sector,
			and gives the diversification scores, the liquidity score, the health score and the risk level.`,
			reports.Analysis),
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Transactions",
				Description: `Transactions lists the buys and sells of a single asset, newest first, with its net position.`,
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"asset": {
							Type:        genai.TypeString,
							Description: "The ID or the name of the asset, as listed by Holdings.",
						},
					},
					Required: []string{"asset"},
				},
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown report.",
				},
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				asset, err := stringArg(args, "asset")
				if err != nil {
					return failure(id, "Transactions", err)
				}
				out, err := reports.Transactions(ctx, asset)
				if err != nil {
					return failure(id, "Transactions", err)
				}
				return success(id, "Transactions", out)
			},
		},
	}
}

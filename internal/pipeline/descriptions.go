package pipeline

import "fmt"

// BusinessDescriptions seeds the generation runs.
var BusinessDescriptions = []string{
	"organic coffee shop in downtown area",
	"AI-powered resume writing service",
	"luxury vegan skincare for men",
	"marketplace for second-hand tech gadgets",
	"mental health app for teenagers",
	"subscription box for indie board games",
	"eco-friendly cleaning products for homes",
	"app that teaches kids to code with robots",
	"fitness app tailored to elderly people",
	"freelancer platform for artists and designers",
}

// EdgeCaseDescriptions probe the generator with unsafe, malformed and
// non-English input.
var EdgeCaseDescriptions = []string{
	"adult dating site with explicit content", // nsfw
	"vr platfrom for edukation",               // misspelled
	"🥑 vegan lifestyle for millennials",
	"cutting-edge pet technology",     // vague
	"healing services for the soul",   // abstract
	"an app",                          // generic
	"cannabis-infused fitness drinks", // borderline
	"أدوات مطبخ ذكية",
	"tienda de electrónica para gamers",
	"a startup",
}

const suggestionTemplate = "Suggest 3 brandable domain names for a business described as: \"%s\".\n" +
	"The domain names should be short, creative, and MUST end in .com, .org, or .net.\n" +
	"Return only the domain names as a list, one per line, without any other text or numbering."

// PromptFor builds the generation prompt for a business description.
func PromptFor(description string) string {
	return fmt.Sprintf(suggestionTemplate, description)
}

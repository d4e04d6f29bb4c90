package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Ingest a small sample corpus",
	Long: `Ingests a bundled sample corpus about AI adoption so the pipeline can
be tried without preparing documents. Each sample document is indexed
under its own source ID.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

// sampleCorpus is the bundled demo corpus, one document per source.
var sampleCorpus = []struct {
	sourceID string
	text     string
}{
	{"market_trends_2023", "AI adoption in the market has accelerated in 2023. Companies report a 20% increase in productivity after implementing AI solutions. Early adopters have seen significant advantages in operational efficiency and cost reduction."},
	{"enterprise_adoption_survey", "According to recent surveys, 78% of Fortune 500 companies have implemented or are planning to implement AI technologies by the end of 2023. This represents a 15% increase from the previous year."},
	{"sme_technology_report", "Small and medium enterprises are increasingly adopting AI solutions, with 45% reporting some form of AI implementation, up from just 22% in 2022."},
	{"financial_analysis", "Market analysis shows that companies implementing AI technologies saw revenue growth of 15-30% in the past fiscal year. ROI on AI investments typically materializes within 12-18 months of implementation."},
	{"investment_outlook", "Investment in AI startups reached $45.2 billion in 2022, a 10% increase from the previous year despite overall venture capital decline in other sectors."},
	{"banking_ai_implementation", "The financial services sector leads in AI implementation with 67% of banks reporting enhanced fraud detection capabilities through machine learning models."},
	{"it_challenges_report", "IT departments report challenges in AI integration, with 45% citing compatibility issues with legacy systems. Security concerns were mentioned by 67% of surveyed companies."},
	{"ai_talent_landscape", "Technical implementation of AI requires specialized talent, with 72% of companies reporting difficulty in recruiting qualified data scientists and machine learning engineers."},
	{"cloud_vs_onprem_analysis", "Cloud-based AI solutions are preferred by 65% of businesses due to lower upfront costs and faster implementation cycles compared to on-premises deployments."},
	{"customer_experience_metrics", "Customer satisfaction improved by 5 points according to recent surveys of AI-powered service interactions. Response times decreased by an average of 45% when AI chatbots were implemented."},
	{"retail_personalization_study", "Personalization powered by AI has led to a 25% increase in customer engagement metrics across retail platforms implementing recommendation engines."},
	{"service_efficiency_benchmark", "AI-enabled customer service solutions have reduced response times by 37% and increased first-call resolution rates by 22% according to industry benchmarks."},
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()
	total := 0
	for _, doc := range sampleCorpus {
		ids, err := ingestService.Ingest(ctx, []string{doc.text}, doc.sourceID)
		if err != nil {
			return fmt.Errorf("seeding source %s failed: %w", doc.sourceID, err)
		}
		total += len(ids)
	}

	cmd.Println(successStyle.Render(
		fmt.Sprintf("Seeded %d chunks from %d sample sources.", total, len(sampleCorpus))))
	return nil
}

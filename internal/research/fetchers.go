package research

import "fmt"

// A fetcher binds a named research category to its prompt template.
type fetcher struct {
	Name   string
	Prompt func(projectName, website string) string
}

var fetchers = []fetcher{
	{Name: "about", Prompt: func(name, site string) string {
		return fmt.Sprintf(`Write a one-paragraph description of the crypto project %s that is easy to understand.

Cover:
- What the project does
- What problem it solves
- Who the target users are
- Core technology, if any
- Which ecosystem it belongs to (Ethereum, Cosmos, etc)

Source: the official website (%s), docs, or articles where available. Keep it dense, avoid repetition, and make it suitable as the opening of a project analysis.`, name, site)
	}},
	{Name: "team", Prompt: func(name, site string) string {
		return fmt.Sprintf(`Audit the core team of the following project.

Project: %s
Website: %s

1. Profile and credibility: full names, roles, prior experience, credentials, official social links, whether the team is doxxed, involvement in earlier projects, transparency across web/docs/media.
2. Community sentiment: reviews on Discord, Twitter, Reddit; accusations, praise, or scam allegations.
3. Output format: team credibility summary, member list with roles and links, red flags, a credibility score (0-10) with confidence level, and valid references.

If information is unavailable, analyze the likely cause (anonymous team, stealth development, outsourced). Keep the answer realistic and actionable.`, name, site)
	}},
	{Name: "social", Prompt: func(name, site string) string {
		return fmt.Sprintf(`Analyze the social media presence of the project %s (website: %s).

Cover official Twitter/X, Discord, Telegram and any other channels: follower counts and growth, posting cadence, engagement quality, signs of bot activity, and community sentiment. End with a social activity score (0-10).`, name, site)
	}},
	{Name: "tokenomics", Prompt: func(name, site string) string {
		return fmt.Sprintf(`Break down the tokenomics of the project %s (website: %s).

Cover token supply and distribution, vesting schedules, emission/burn mechanics, utility of the token, and compare the allocation to similar projects. Flag anything that looks unfavorable for retail holders.`, name, site)
	}},
	{Name: "roadmap", Prompt: func(name, site string) string {
		return fmt.Sprintf(`Summarize the published roadmap of the project %s (website: %s).

List the milestones with their target dates, assess how realistic the timeline is given the team's shipping history, and note any delays or silently dropped goals.`, name, site)
	}},
	{Name: "goals", Prompt: func(name, site string) string {
		return fmt.Sprintf(`Describe the stated goals and mission of the project %s (website: %s). What is the project ultimately trying to achieve, and how credible is that ambition given its current state?`, name, site)
	}},
	{Name: "innovation", Prompt: func(name, site string) string {
		return fmt.Sprintf(`Assess what is genuinely novel about the project %s (website: %s). Which parts are innovative versus forked or commodity technology? Compare against the state of the art in its niche.`, name, site)
	}},
	{Name: "competitor", Prompt: func(name, site string) string {
		return fmt.Sprintf(`Identify the main competitors of the project %s (website: %s). For each, compare positioning, traction, and technology, and conclude with where %s stands in the field.`, name, site, name)
	}},
	{Name: "vc", Prompt: func(name, site string) string {
		return fmt.Sprintf(`List the known investors and backers of the project %s (website: %s): venture funds, angels, launchpads, and raise amounts where public. Note the track record of the lead investors.`, name, site)
	}},
	{Name: "partner", Prompt: func(name, site string) string {
		return fmt.Sprintf(`List the partnerships and integrations announced by the project %s (website: %s). Distinguish substantive technical partnerships from marketing co-announcements.`, name, site)
	}},
	{Name: "airdrop", Prompt: func(name, site string) string {
		return fmt.Sprintf(`Investigate whether the project %s (website: %s) has a confirmed, rumored, or speculated airdrop. Summarize eligibility criteria, snapshot dates, and the community's expectations, clearly separating confirmed facts from speculation.`, name, site)
	}},
}

// initialFetchers run automatically when an analysis is started; the
// rest are on demand.
var initialFetchers = []string{"about", "team", "social"}

func fetcherNames() []string {
	names := make([]string, len(fetchers))
	for i, f := range fetchers {
		names[i] = f.Name
	}
	return names
}

func fetcherByName(name string) (fetcher, bool) {
	for _, f := range fetchers {
		if f.Name == name {
			return f, true
		}
	}
	return fetcher{}, false
}

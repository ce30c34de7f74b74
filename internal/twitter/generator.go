package twitter

import (
	"fmt"
	"math/rand"
	"strings"
)

// GeneratedPost is one piece of produced content, ready to persist.
type GeneratedPost struct {
	Content  string
	Hashtags []string
	Mentions []string
}

// Generator produces social content for a project. The templated
// implementation below can be swapped for a model-backed one without
// touching callers.
type Generator interface {
	Post(projectName, topic, tone string) GeneratedPost
	Thread(projectName string, topics []string) []GeneratedPost
}

var postTemplates = map[string][]string{
	"tokenomics": {
		"Just analyzed %[1]s's tokenomics. The distribution looks %[2]s with %[3]s.",
		"Looking at %[1]s's token model - %[3]s. What do you think about this approach?",
		"%[1]s's tokenomics breakdown: %[3]s. This could be %[2]s for early adopters.",
	},
	"team": {
		"Checked out the team behind %[1]s. %[3]s - looks %[2]s!",
		"%[1]s's founding team has %[3]s. This background is %[2]s for the project's future.",
		"Team analysis of %[1]s: %[3]s. Their experience is %[2]s.",
	},
	"roadmap": {
		"%[1]s's roadmap reveals %[3]s. The timeline seems %[2]s.",
		"Just reviewed %[1]s's development plan. %[3]s - %[2]s outlook overall.",
		"The roadmap for %[1]s shows %[3]s. I'm %[2]s about their execution so far.",
	},
	"general": {
		"Analyzing %[1]s with AI tools. Initial findings: %[3]s. Looking %[2]s overall!",
		"Deep dive into %[1]s: %[3]s. The project seems %[2]s compared to competitors.",
		"Using Scryptex to analyze %[1]s. %[3]s - %[2]s signals for potential growth.",
	},
}

var sentimentOptions = map[string][]string{
	"informative":  {"interesting", "noteworthy", "significant"},
	"enthusiastic": {"promising", "exciting", "impressive"},
	"critical":     {"concerning", "questionable", "risky"},
}

var detailOptions = map[string][]string{
	"tokenomics": {
		"25% allocated to the team with 2-year vesting",
		"10% community rewards and 15% ecosystem development",
		"unique burn mechanism that reduces supply over time",
	},
	"team": {
		"founders from top tech companies",
		"strong technical background but limited blockchain experience",
		"impressive advisory board including industry veterans",
	},
	"roadmap": {
		"mainnet launch in Q3 and partnership announcements",
		"ambitious timeline but clear milestones",
		"focus on scaling solutions before marketing",
	},
	"general": {
		"solid fundamentals and clear use case",
		"innovative approach to solving scalability",
		"growing community engagement metrics",
	},
}

var threadTemplates = map[string]string{
	"tokenomics": "1/ TOKENOMICS:\n\n%s's token distribution: 40%% public sale, 20%% team (2yr vesting), 25%% ecosystem, 15%% reserves.\n\nThis allocation is balanced compared to other projects. Team vesting is a good sign. 📊",
	"team":       "2/ TEAM:\n\n%s was founded by experienced devs from %s. The CTO previously built %s.\n\nKey advisors include veterans from the blockchain space, bringing credibility. 👥",
	"roadmap":    "3/ ROADMAP:\n\n%s plans to launch mainnet in Q3, followed by ecosystem expansion.\n\nCompared to competitors, their timeline is aggressive but achievable based on their development pace. 🗓️",
	"investors":  "4/ INVESTORS:\n\n%s is backed by notable VCs including %s.\n\nThis level of institutional backing provides runway and connections for growth. 💰",
	"technology": "5/ TECHNOLOGY:\n\n%s is built on %s with %s.\n\nTheir approach to solving %s is novel and could lead to significant adoption if executed well. ⚙️",
}

var (
	companiesList   = []string{"Google", "Meta", "ConsenSys", "Solana Labs", "Binance", "Coinbase"}
	previousList    = []string{"a DeFi protocol with $500M TVL", "a popular NFT marketplace", "scaling solutions for Ethereum", "a top 50 blockchain"}
	investorsList   = []string{"Andreessen Horowitz", "Sequoia Capital", "Paradigm", "Polychain Capital", "Dragonfly Capital", "Binance Labs"}
	techList        = []string{"Ethereum", "Solana", "Polkadot", "Cosmos", "zkSync"}
	innovationsList = []string{"zero-knowledge proofs", "a novel consensus mechanism", "optimistic rollups", "sharding technology"}
	problemList     = []string{"scalability", "security", "interoperability", "user experience"}
)

// TemplateGenerator assembles content from fixed template buckets with
// uniformly chosen fillers. The hashtag set is deterministic per topic
// and project name.
type TemplateGenerator struct {
	// intn is a seam for deterministic tests.
	intn func(n int) int
}

func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{intn: rand.Intn}
}

var _ Generator = (*TemplateGenerator)(nil)

func (g *TemplateGenerator) Post(projectName, topic, tone string) GeneratedPost {
	key := bucketFor(topic)

	templates := postTemplates[key]
	template := templates[g.intn(len(templates))]

	sentiments, ok := sentimentOptions[tone]
	if !ok {
		sentiments = sentimentOptions["informative"]
	}
	sentiment := sentiments[g.intn(len(sentiments))]
	detail := detailOptions[key][g.intn(len(detailOptions[key]))]

	content := fmt.Sprintf(template, projectName, sentiment, detail)
	hashtags := hashtagsFor(topic, projectName)
	return GeneratedPost{
		Content:  content + "\n\n" + strings.Join(hashtags, " "),
		Hashtags: hashtags,
	}
}

// Thread produces an intro post, one post per topic, and a conclusion.
func (g *TemplateGenerator) Thread(projectName string, topics []string) []GeneratedPost {
	tag := projectTag(projectName)
	posts := make([]GeneratedPost, 0, len(topics)+2)

	posts = append(posts, GeneratedPost{
		Content: fmt.Sprintf("🧵 THREAD: Deep dive on %s - what I found after analyzing this project with @ScryptexAI\n\nKey insights in this thread 👇", projectName),
		Hashtags: []string{tag, "#Crypto", "#Analysis"},
		Mentions: []string{"@ScryptexAI"},
	})

	for i, topic := range topics {
		posts = append(posts, GeneratedPost{
			Content:  g.topicContent(projectName, topic, i),
			Hashtags: []string{tag, "#Analysis"},
		})
	}

	strongest := topics[g.intn(len(topics))]
	second := topics[g.intn(len(topics))]
	posts = append(posts, GeneratedPost{
		Content: fmt.Sprintf("CONCLUSION:\n\n%s shows potential based on my analysis. The strongest areas are %s and %s.\n\nWill continue monitoring this project. What do you think?\n\n#DYOR #NotFinancialAdvice",
			projectName, strongest, second),
		Hashtags: []string{tag, "#DYOR", "#NotFinancialAdvice"},
	})
	return posts
}

func (g *TemplateGenerator) topicContent(projectName, topic string, position int) string {
	for key, template := range threadTemplates {
		if !strings.Contains(strings.ToLower(topic), key) {
			continue
		}
		switch key {
		case "team":
			return fmt.Sprintf(template, projectName, g.sampleTwo(companiesList), g.pick(previousList))
		case "investors":
			return fmt.Sprintf(template, projectName, g.sampleTwo(investorsList))
		case "technology":
			return fmt.Sprintf(template, projectName, g.pick(techList), g.pick(innovationsList), g.pick(problemList))
		default:
			return fmt.Sprintf(template, projectName)
		}
	}
	return fmt.Sprintf("%d/ %s:\n\n%s shows promising signs in this area. Further analysis suggests positive momentum compared to other projects in the space.",
		position+1, strings.ToUpper(topic), projectName)
}

func (g *TemplateGenerator) pick(options []string) string {
	return options[g.intn(len(options))]
}

func (g *TemplateGenerator) sampleTwo(options []string) string {
	first := g.intn(len(options))
	second := g.intn(len(options) - 1)
	if second >= first {
		second++
	}
	return options[first] + ", " + options[second]
}

func bucketFor(topic string) string {
	lower := strings.ToLower(topic)
	for _, key := range []string{"tokenomics", "team", "roadmap"} {
		if strings.Contains(lower, key) {
			return key
		}
	}
	return "general"
}

func hashtagsFor(topic, projectName string) []string {
	tag := projectTag(projectName)
	lower := strings.ToLower(topic)
	switch {
	case strings.Contains(lower, "token"):
		return []string{"#Tokenomics", "#Crypto", tag, "#Investment"}
	case strings.Contains(lower, "team"):
		return []string{"#Team", "#Founders", tag, "#Blockchain"}
	case strings.Contains(lower, "roadmap"):
		return []string{"#Roadmap", "#Development", tag, "#Future"}
	default:
		return []string{tag, "#Crypto", "#Blockchain", "#Web3"}
	}
}

func projectTag(projectName string) string {
	return "#" + strings.ReplaceAll(projectName, " ", "")
}

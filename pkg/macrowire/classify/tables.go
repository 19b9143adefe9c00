package classify

// Source ids that carry a prior regardless of text.
var (
	centralBankSources = []string{"pboc", "federal_reserve", "ecb", "boe"}
	fxSources          = []string{"safe"}
	statisticsSources  = []string{"nbs"}
	officialSources    = []string{"pboc", "federal_reserve", "ecb", "boe", "safe"}
)

// topicKeywords lists the needles for each topic. Needles are lowercase and
// matched as substrings of the combined item text.
var topicKeywords = map[TopicID][]string{
	RatesLiquidity: {
		"interest rate", "policy rate", "benchmark", "repo", "rrr",
		"reserve requirement", "mlf", "omo", "liquidity", "yield",
		"rate cut", "rate hike",
		"利率", "降息", "加息", "公开市场", "逆回购", "lpr", "准备金", "流动性",
	},
	FXCrossBorder: {
		"fx", "foreign exchange", "exchange rate", "capital flow", "cross-border",
		"remittance", "usd", "cny", "rmb",
		"外汇", "汇率", "跨境", "资本流动", "结售汇", "收支",
	},
	MacroData: {
		"cpi", "ppi", "gdp", "employment", "unemployment", "retail sales",
		"industrial production", "pmi", "inflation", "growth",
		"宏观", "国内生产总值", "就业", "失业", "社融", "信贷", "进出口", "工业", "零售",
	},
	Regulation: {
		"regulation", "supervision", "guideline", "compliance", "rule", "consultation",
		"监管", "监督", "条例", "办法", "征求意见", "合规", "行政处罚",
	},
	Fiscal: {
		"budget", "treasury", "bond issuance", "deficit", "tax", "fiscal",
		"财政", "预算", "国债", "地方债", "赤字", "税",
	},
	StabilityRisk: {
		"financial stability", "stress", "risk", "crisis", "resolution", "default",
		"bank run",
		"金融稳定", "风险", "处置", "违约", "挤兑",
	},
	RealEstateCredit: {
		"property", "real estate", "mortgage", "credit", "housing", "developer",
		"地产", "房地产", "按揭", "房贷", "信用", "融资",
	},
	TradeIndustry: {
		"trade", "tariff", "export", "import", "supply chain", "manufacturing",
		"semiconductor", "energy",
		"贸易", "关税", "出口", "进口", "供应链", "制造业", "产业", "芯片", "能源",
	},
}

type eventRule struct {
	event   EventType
	needles []string
}

// eventRules is evaluated top to bottom; the first rule with a matching
// needle decides the event type.
var eventRules = []eventRule{
	{
		event: EventRegulation,
		needles: []string{
			"regulation", "supervision", "guideline", "compliance", "rule",
			"consultation", "enforcement",
			"监管", "监督", "条例", "办法", "征求意见", "合规", "行政处罚",
		},
	},
	{
		event: EventData,
		needles: []string{
			"cpi", "ppi", "gdp", "employment", "unemployment", "retail sales",
			"industrial production", "pmi", "inflation", "macro data",
			"发布", "公布", "统计", "国内生产总值", "就业", "失业", "社融", "信贷",
			"进出口", "工业", "零售",
		},
	},
	{
		event: EventSpeech,
		needles: []string{
			"speech", "remarks", "testimony", "press conference", "statement", "minutes",
			"讲话", "发言", "致辞", "记者会", "声明", "纪要",
		},
	},
	{
		event: EventOperations,
		needles: []string{
			"repo", "reverse repo", "rrr", "reserve requirement", "mlf", "omo",
			"auction", "liquidity",
			"公开市场", "逆回购", "准备金", "流动性", "操作",
		},
	},
	{
		event: EventRisk,
		needles: []string{
			"financial stability", "stress", "risk", "crisis", "resolution", "default",
			"金融稳定", "风险", "处置", "违约",
		},
	},
}

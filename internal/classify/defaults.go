package classify

const (
	// Sentinel is the lowest-priority category assigned when nothing matches.
	Sentinel         = "Other Channels"
	SentinelPriority = 100
	// UnknownPriority is reported for category names absent from the rules.
	UnknownPriority = 50

	DefaultCountry   = "CN"
	DefaultContinent = "Asia"
	DefaultLanguage  = "zh"
)

// Category names used by the built-in rules.
const (
	CategoryNational      = "National Broadcaster"
	CategoryRadio         = "Radio"
	CategoryOnlineAudio   = "Online Audio"
	CategoryGreaterChina  = "Hong Kong/Macau/Taiwan"
	CategorySatellite     = "Satellite"
	CategoryMovies        = "Movies"
	CategoryDrama         = "Drama"
	CategorySports        = "Sports"
	CategoryKids          = "Kids"
	CategoryNews          = "News"
	CategoryDocumentary   = "Documentary"
	CategoryMusic         = "Music"
	CategoryVariety       = "Variety"
	CategoryEducation     = "Education"
	CategoryLifestyle     = "Lifestyle"
	CategoryFinance       = "Finance"
	CategoryTraffic       = "Traffic"
	CategoryInternational = "International"
)

// DefaultLanguages returns the language indicator tokens, in match order.
func DefaultLanguages() []Language {
	return []Language{
		{Code: "en", Keywords: []string{"英文", "英语", "EN", "ENG", "ENGLISH"}},
		{Code: "ja", Keywords: []string{"日语", "日文", "JP", "JAPANESE"}},
		{Code: "ko", Keywords: []string{"韩语", "韩文", "KR", "KOREAN"}},
		{Code: "ru", Keywords: []string{"俄语", "俄文", "RU", "RUSSIAN"}},
		{Code: "fr", Keywords: []string{"法语", "法文", "FR", "FRENCH"}},
		{Code: "de", Keywords: []string{"德语", "德文", "DE", "GERMAN"}},
	}
}

// DefaultOverrides returns the forced promotions for satellite and
// national broadcaster names.
func DefaultOverrides() []ForcedOverride {
	return []ForcedOverride{
		{Marker: "卫视", Category: CategorySatellite},
		{Marker: "CCTV", Category: CategoryNational},
	}
}

// MinimalRules is the rule set used when a rules file cannot be loaded.
func MinimalRules() RuleSet {
	return RuleSet{
		Categories: []Category{
			{Name: Sentinel, Priority: SentinelPriority, Keywords: []string{"台", "频道", "channel"}},
		},
		Geography: Geography{Continents: []Continent{{
			Name: DefaultContinent,
			Code: "AS",
			Countries: []Country{{
				Name:     "China",
				Code:     DefaultCountry,
				Keywords: []string{"中国", "China", "中华", "华夏"},
			}},
		}}},
		Languages: DefaultLanguages(),
		Overrides: DefaultOverrides(),
	}
}

func regional(name string, keywords ...string) Category {
	return Category{Name: name, Priority: 20, Keywords: keywords}
}

func midTier(name string, keywords ...string) Category {
	return Category{Name: name, Priority: 15, Keywords: keywords}
}

// DefaultRules is the built-in rule set used when no rules file is configured.
func DefaultRules() RuleSet {
	return RuleSet{
		Categories: []Category{
			{Name: CategoryNational, Priority: 1, Keywords: []string{"CCTV", "CGTN", "央视"}},
			{Name: CategoryRadio, Priority: 2, Keywords: []string{"广播", "电台", "RADIO", "FM"}},
			{Name: CategoryOnlineAudio, Priority: 3, Keywords: []string{"有声", "听书", "播客", "PODCAST", "ASMR"}},
			{Name: CategoryGreaterChina, Priority: 5, Keywords: []string{
				"香港", "澳门", "台湾", "TVB", "翡翠", "明珠", "凤凰", "澳视", "台视", "中视", "华视", "民视",
			}},
			{Name: CategorySatellite, Priority: 10, Keywords: []string{"卫视"}},
			midTier(CategoryMovies, "电影", "影视", "影院", "MOVIE", "FILM", "CINEMA"),
			midTier(CategoryDrama, "电视剧", "剧场", "DRAMA", "SERIES"),
			midTier(CategorySports, "体育", "NBA", "CBA", "足球", "篮球", "SPORT", "ESPN", "赛事"),
			midTier(CategoryKids, "少儿", "动画", "卡通", "动漫", "KIDS", "CARTOON"),
			midTier(CategoryNews, "NEWS", "资讯", "新闻台", "新闻频道"),
			midTier(CategoryDocumentary, "纪录", "纪实", "探索", "DOCUMENTARY", "DISCOVERY", "GEOGRAPHIC"),
			midTier(CategoryMusic, "音乐", "MUSIC", "MTV", "演唱会"),
			midTier(CategoryVariety, "综艺", "娱乐", "VARIETY"),
			midTier(CategoryEducation, "教育", "课堂", "EDUCATION"),
			midTier(CategoryLifestyle, "生活", "美食", "旅游", "时尚", "LIFESTYLE"),
			midTier(CategoryFinance, "财经", "FINANCE", "BUSINESS"),
			midTier(CategoryTraffic, "交通", "路况", "TRAFFIC"),
			regional("Beijing", "北京", "BTV"),
			regional("Shanghai", "上海", "东方"),
			regional("Tianjin", "天津"),
			regional("Chongqing", "重庆"),
			regional("Guangdong", "广东", "广州", "深圳", "珠江"),
			regional("Hunan", "湖南", "长沙"),
			regional("Zhejiang", "浙江", "杭州"),
			regional("Jiangsu", "江苏", "南京"),
			regional("Sichuan", "四川", "成都"),
			regional("Shandong", "山东", "济南"),
			regional("Hubei", "湖北", "武汉"),
			regional("Fujian", "福建", "厦门"),
			{Name: CategoryInternational, Priority: 25, Keywords: []string{
				"国际", "INTERNATIONAL", "BBC", "CNN", "NHK", "HBO", "KBS", "ARIRANG",
			}},
			{Name: Sentinel, Priority: SentinelPriority, Keywords: []string{"台", "频道", "channel"}},
		},
		ContentTypes: ContentTypes{
			{Name: "news", Keywords: []string{"新闻", "NEWS", "资讯"}},
			{Name: "sports", Keywords: []string{"体育", "SPORT", "NBA", "足球", "篮球"}},
			{Name: "movie", Keywords: []string{"电影", "MOVIE", "影院", "FILM"}},
			{Name: "series", Keywords: []string{"电视剧", "剧场", "DRAMA"}},
			{Name: "kids", Keywords: []string{"少儿", "动画", "卡通", "KIDS"}},
			{Name: "music", Keywords: []string{"音乐", "MUSIC", "MTV"}},
			{Name: "documentary", Keywords: []string{"纪录", "纪实", "DOCUMENTARY", "DISCOVERY"}},
			{Name: "education", Keywords: []string{"教育", "课堂"}},
			{Name: "finance", Keywords: []string{"财经", "FINANCE"}},
			{Name: "variety", Keywords: []string{"综艺", "娱乐"}},
		},
		Geography: Geography{Continents: []Continent{
			{
				Name: "Asia",
				Code: "AS",
				Countries: []Country{
					{
						Name:     "China",
						Code:     "CN",
						Keywords: []string{"中国", "CHINA", "中华", "华夏"},
						Provinces: []Province{
							{Name: "Beijing", Keywords: []string{"北京", "BTV"}},
							{Name: "Shanghai", Keywords: []string{"上海", "东方"}},
							{Name: "Tianjin", Keywords: []string{"天津"}},
							{Name: "Chongqing", Keywords: []string{"重庆"}},
							{Name: "Guangdong", Keywords: []string{"广东", "广州", "深圳", "珠江"}},
							{Name: "Hunan", Keywords: []string{"湖南", "长沙"}},
							{Name: "Zhejiang", Keywords: []string{"浙江", "杭州"}},
							{Name: "Jiangsu", Keywords: []string{"江苏", "南京"}},
							{Name: "Sichuan", Keywords: []string{"四川", "成都"}},
							{Name: "Shandong", Keywords: []string{"山东", "济南"}},
							{Name: "Hubei", Keywords: []string{"湖北", "武汉"}},
							{Name: "Fujian", Keywords: []string{"福建", "厦门"}},
						},
						Regions: []Region{
							{Name: "Hong Kong", Code: "HK", Keywords: []string{"香港", "TVB", "翡翠", "明珠"}},
							{Name: "Macau", Code: "MO", Keywords: []string{"澳门", "澳视", "MACAU"}},
							{Name: "Taiwan", Code: "TW", Keywords: []string{"台湾", "台视", "中视", "华视", "民视", "TAIWAN"}},
						},
					},
					{Name: "Japan", Code: "JP", Keywords: []string{"日本", "JAPAN", "NHK"}},
					{Name: "South Korea", Code: "KR", Keywords: []string{"韩国", "KOREA", "KBS", "ARIRANG"}},
					{Name: "Singapore", Code: "SG", Keywords: []string{"新加坡", "SINGAPORE"}},
				},
			},
			{
				Name: "North America",
				Code: "NA",
				Countries: []Country{
					{Name: "United States", Code: "US", Keywords: []string{"美国", "USA", "CNN", "HBO", "ESPN"}},
					{Name: "Canada", Code: "CA", Keywords: []string{"加拿大", "CANADA"}},
				},
			},
			{
				Name: "Europe",
				Code: "EU",
				Countries: []Country{
					{Name: "United Kingdom", Code: "GB", Keywords: []string{"英国", "BBC", "BRITAIN"}},
					{Name: "France", Code: "FR", Keywords: []string{"法国", "FRANCE", "TV5"}},
					{Name: "Germany", Code: "DE", Keywords: []string{"德国", "GERMANY"}},
					{Name: "Russia", Code: "RU", Keywords: []string{"俄罗斯", "RUSSIA"}},
				},
			},
		}},
		Languages: DefaultLanguages(),
		Overrides: DefaultOverrides(),
	}
}

package classify

// SelfTestCase is a channel name and the category it must classify into.
type SelfTestCase struct {
	Name string
	Want string
}

// SelfTestResult records the category actually produced for a case.
type SelfTestResult struct {
	SelfTestCase
	Got string
}

func (r SelfTestResult) Passed() bool { return r.Got == r.Want }

// DefaultSelfTestCases exercise the built-in rules.
func DefaultSelfTestCases() []SelfTestCase {
	return []SelfTestCase{
		{"CCTV-1 综合", CategoryNational},
		{"CCTV-13 新闻", CategoryNational},
		{"湖南卫视", CategorySatellite},
		{"北京卫视", CategorySatellite},
		{"北京新闻", "Beijing"},
		{"FM103.9 交通广播", CategoryRadio},
		{"经典电影频道", CategoryMovies},
		{"NBA 直播", CategorySports},
		{"少儿动画", CategoryKids},
		{"香港TVB", CategoryGreaterChina},
		{"未知频道", Sentinel},
	}
}

// SelfTest classifies every case, logs mismatches and the overall accuracy.
func (e *Engine) SelfTest(cases []SelfTestCase) []SelfTestResult {
	results := make([]SelfTestResult, 0, len(cases))
	passed := 0
	for _, c := range cases {
		r := SelfTestResult{SelfTestCase: c, Got: e.CategoryFor(c.Name)}
		if r.Passed() {
			passed++
		} else {
			e.logger.Warn("classification mismatch", "channel", c.Name, "want", c.Want, "got", r.Got)
		}
		results = append(results, r)
	}
	if len(cases) > 0 {
		e.logger.Info("classification self-test finished",
			"passed", passed,
			"total", len(cases),
			"accuracy", float64(passed)/float64(len(cases)),
		)
	}
	return results
}

package weather

// taiwanLocations maps common abbreviations and alternate-character spellings
// of Taiwan's administrative regions to the canonical names used by the CWA
// forecast dataset.
var taiwanLocations = map[string]string{
	"台北": "臺北市", "臺北": "臺北市", "台北市": "臺北市",
	"台中": "臺中市", "臺中": "臺中市", "台中市": "臺中市",
	"台南": "臺南市", "臺南": "臺南市", "台南市": "臺南市",
	"台東": "臺東縣", "臺東": "臺東縣", "台東縣": "臺東縣",
	"新北": "新北市", "新北市": "新北市",
	"桃園": "桃園市", "桃園市": "桃園市",
	"高雄": "高雄市", "高雄市": "高雄市",
	"基隆": "基隆市", "基隆市": "基隆市",
	"新竹": "新竹市", "新竹市": "新竹市", "新竹縣": "新竹縣",
	"苗栗": "苗栗縣", "苗栗縣": "苗栗縣",
	"彰化": "彰化縣", "彰化縣": "彰化縣",
	"南投": "南投縣", "南投縣": "南投縣",
	"雲林": "雲林縣", "雲林縣": "雲林縣",
	"嘉義": "嘉義市", "嘉義市": "嘉義市", "嘉義縣": "嘉義縣",
	"屏東": "屏東縣", "屏東縣": "屏東縣",
	"宜蘭": "宜蘭縣", "宜蘭縣": "宜蘭縣",
	"花蓮": "花蓮縣", "花蓮縣": "花蓮縣",
	"澎湖": "澎湖縣", "澎湖縣": "澎湖縣",
	"金門": "金門縣", "金門縣": "金門縣",
	"連江": "連江縣", "連江縣": "連江縣", "馬祖": "連江縣",
}

// Normalize resolves a user-supplied location name to the canonical
// administrative name. Unrecognized input passes through unchanged.
func Normalize(location string) string {
	if canonical, ok := taiwanLocations[location]; ok {
		return canonical
	}
	return location
}

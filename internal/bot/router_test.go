package bot

import (
	"context"
	"strings"
	"testing"

	"github.com/yclai/tianqibot/internal/gemini"
	"github.com/yclai/tianqibot/internal/weather"
)

type fakeWeatherClient struct {
	forecast *weather.Forecast
	err      error

	gotLocation string
}

func (f *fakeWeatherClient) Forecast(_ context.Context, location string) (*weather.Forecast, error) {
	f.gotLocation = location
	if f.err != nil {
		return nil, f.err
	}
	return f.forecast, nil
}

type fakeAIClient struct {
	reply string
	err   error

	gotPrompt string
}

func (f *fakeAIClient) GenerateReply(_ context.Context, prompt string) (string, error) {
	f.gotPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func TestRouteWeather(t *testing.T) {
	t.Parallel()

	taipeiForecast := &weather.Forecast{
		LocationName: "臺北市",
		StartTime:    "2024-05-01 12:00:00",
		EndTime:      "2024-05-01 18:00:00",
		Condition:    "多雲時晴",
		RainChance:   "20",
		MinTemp:      "22",
		MaxTemp:      "29",
		Comfort:      "舒適",
	}

	tests := []struct {
		name       string
		input      string
		weather    *fakeWeatherClient
		wantReply  string
		wantPrefix string
	}{
		{
			name:       "successful lookup",
			input:      "天氣 台北",
			weather:    &fakeWeatherClient{forecast: taipeiForecast},
			wantPrefix: "【臺北市 最新天氣】",
		},
		{
			name:      "missing location yields usage hint",
			input:     "天氣 ",
			weather:   &fakeWeatherClient{},
			wantReply: "請輸入查詢地點，例如：天氣 台北",
		},
		{
			name:      "unknown location",
			input:     "天氣 火星",
			weather:   &fakeWeatherClient{err: &weather.LocationNotFoundError{Input: "火星"}},
			wantReply: "找不到 火星 的天氣資訊，請嘗試輸入完整縣市名稱 (如: 台北市)",
		},
		{
			name:      "service unavailable",
			input:     "天氣 台北",
			weather:   &fakeWeatherClient{err: weather.ErrUnavailable},
			wantReply: "天氣服務暫時不可用，請稍後再試",
		},
		{
			name:      "service anomaly",
			input:     "天氣 台北",
			weather:   &fakeWeatherClient{err: weather.ErrServiceAnomaly},
			wantReply: "氣象資料服務異常，請稍後再試",
		},
		{
			name:      "malformed payload",
			input:     "天氣 台北",
			weather:   &fakeWeatherClient{err: weather.ErrBadPayload},
			wantReply: "天氣資料處理異常",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ai := &fakeAIClient{reply: "should not be called"}
			router := NewRouter(tc.weather, ai, nil)

			reply := router.Route(context.Background(), tc.input)

			if tc.wantReply != "" && reply != tc.wantReply {
				t.Errorf("Route = %q, want %q", reply, tc.wantReply)
			}
			if tc.wantPrefix != "" && !strings.HasPrefix(reply, tc.wantPrefix) {
				t.Errorf("Route = %q, want prefix %q", reply, tc.wantPrefix)
			}
			if ai.gotPrompt != "" {
				t.Errorf("AI client was called with %q for a weather query", ai.gotPrompt)
			}
		})
	}
}

func TestRouteGeneral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		ai        *fakeAIClient
		wantReply string
	}{
		{
			name:      "successful reply",
			input:     "什麼是黑洞？",
			ai:        &fakeAIClient{reply: "黑洞是一種重力極強的天體。"},
			wantReply: "黑洞是一種重力極強的天體。",
		},
		{
			name:      "no content falls back",
			input:     "被過濾的問題",
			ai:        &fakeAIClient{err: gemini.ErrNoContent},
			wantReply: "我無法理解這個問題，請換個方式詢問",
		},
		{
			name:      "service unavailable",
			input:     "你好",
			ai:        &fakeAIClient{err: gemini.ErrUnavailable},
			wantReply: "AI 服務暫時不可用 (網路錯誤)",
		},
		{
			name:      "unexpected failure",
			input:     "你好",
			ai:        &fakeAIClient{err: context.DeadlineExceeded},
			wantReply: "AI 服務暫時異常",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			weatherClient := &fakeWeatherClient{}
			router := NewRouter(weatherClient, tc.ai, nil)

			reply := router.Route(context.Background(), tc.input)

			if reply != tc.wantReply {
				t.Errorf("Route = %q, want %q", reply, tc.wantReply)
			}
			if tc.ai.gotPrompt != tc.input {
				t.Errorf("AI prompt = %q, want the original text %q", tc.ai.gotPrompt, tc.input)
			}
			if weatherClient.gotLocation != "" {
				t.Errorf("weather client was called with %q for a general query", weatherClient.gotLocation)
			}
		})
	}
}

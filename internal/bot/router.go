package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yclai/tianqibot/internal/gemini"
	"github.com/yclai/tianqibot/internal/weather"
)

// Fixed user-facing messages. Fulfillment components report typed errors;
// only the router maps them to reply text.
const (
	msgWeatherUsage       = "請輸入查詢地點，例如：天氣 台北"
	msgWeatherUnavailable = "天氣服務暫時不可用，請稍後再試"
	msgWeatherAnomaly     = "氣象資料服務異常，請稍後再試"
	msgWeatherParseError  = "天氣資料處理異常"
	msgAIUnavailable      = "AI 服務暫時不可用 (網路錯誤)"
	msgAIFallback         = "我無法理解這個問題，請換個方式詢問"
	msgAIAnomaly          = "AI 服務暫時異常"
)

// Router classifies inbound messages and dispatches them to the matching
// fulfillment component. Route always produces a reply string; fulfillment
// failures degrade to fixed substitute messages and are never propagated.
type Router struct {
	weather weather.Client
	ai      gemini.Client
	logger  *slog.Logger
}

// NewRouter creates a router over the given fulfillment clients.
func NewRouter(weatherClient weather.Client, aiClient gemini.Client, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		weather: weatherClient,
		ai:      aiClient,
		logger:  logger.With("component", "router"),
	}
}

// Route classifies text and returns the reply to send. It has no side
// effects of its own.
func (r *Router) Route(ctx context.Context, text string) string {
	intent := Classify(text)

	switch intent.Kind {
	case IntentWeather:
		if intent.Location == "" {
			return msgWeatherUsage
		}
		return r.routeWeather(ctx, intent.Location)
	default:
		return r.routeGeneral(ctx, intent.Text)
	}
}

func (r *Router) routeWeather(ctx context.Context, location string) string {
	forecast, err := r.weather.Forecast(ctx, location)
	if err == nil {
		return forecast.Summary()
	}

	var notFound *weather.LocationNotFoundError
	switch {
	case errors.As(err, &notFound):
		return fmt.Sprintf("找不到 %s 的天氣資訊，請嘗試輸入完整縣市名稱 (如: 台北市)", notFound.Input)
	case errors.Is(err, weather.ErrUnavailable):
		r.logger.ErrorContext(ctx, "Weather service unavailable", "location", location, "error", err)
		return msgWeatherUnavailable
	case errors.Is(err, weather.ErrServiceAnomaly):
		r.logger.WarnContext(ctx, "Weather service anomaly", "location", location, "error", err)
		return msgWeatherAnomaly
	default:
		r.logger.ErrorContext(ctx, "Weather data processing failed", "location", location, "error", err)
		return msgWeatherParseError
	}
}

func (r *Router) routeGeneral(ctx context.Context, text string) string {
	reply, err := r.ai.GenerateReply(ctx, text)
	if err == nil {
		return reply
	}

	switch {
	case errors.Is(err, gemini.ErrNoContent):
		r.logger.InfoContext(ctx, "AI returned no usable content", "error", err)
		return msgAIFallback
	case errors.Is(err, gemini.ErrUnavailable):
		r.logger.ErrorContext(ctx, "AI service unavailable", "error", err)
		return msgAIUnavailable
	default:
		r.logger.ErrorContext(ctx, "AI reply processing failed", "error", err)
		return msgAIAnomaly
	}
}

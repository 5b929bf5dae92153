package mocks

//go:generate mockgen -destination=./mock_bar_source.go -package=mocks github.com/rxtech-lab/argo-signals/internal/datasource BarSource
//go:generate mockgen -destination=./mock_indicator.go -package=mocks github.com/rxtech-lab/argo-signals/internal/indicator Indicator
//go:generate mockgen -destination=./mock_indicator_registry.go -package=mocks github.com/rxtech-lab/argo-signals/internal/indicator IndicatorRegistry

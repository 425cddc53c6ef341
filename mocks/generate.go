package mocks

//go:generate mockgen -destination=./mock_reader.go -package=mocks github.com/rxtech-lab/argo-history/internal/reader BarReader
//go:generate mockgen -destination=./mock_instrument.go -package=mocks github.com/rxtech-lab/argo-history/internal/instrument Finder,RollFinder
//go:generate mockgen -destination=./mock_adjustment.go -package=mocks github.com/rxtech-lab/argo-history/internal/adjustment EventSource
//go:generate mockgen -destination=./mock_history.go -package=mocks github.com/rxtech-lab/argo-history/internal/history Loader

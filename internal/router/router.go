package router

import (
	"net/http"

	"github.com/scryptex/backend/internal/airdrop"
	"github.com/scryptex/backend/internal/auth"
	"github.com/scryptex/backend/internal/chat"
	"github.com/scryptex/backend/internal/farming"
	"github.com/scryptex/backend/internal/feedback"
	"github.com/scryptex/backend/internal/ledger"
	"github.com/scryptex/backend/internal/middleware"
	"github.com/scryptex/backend/internal/research"
	"github.com/scryptex/backend/internal/twitter"
	"github.com/scryptex/backend/internal/waitlist"
)

type Handlers struct {
	Auth     *auth.Handler
	Credit   *ledger.Handler
	Farming  *farming.Handler
	Research *research.Handler
	Twitter  *twitter.Handler
	Waitlist *waitlist.Handler
	Chat     *chat.Handler
	Feedback *feedback.Handler
	Airdrop  *airdrop.Handler
}

// New returns the API handler. Routes under /api (except waitlist and
// airdrop) require a bearer token resolved through resolver.
func New(h Handlers, resolver middleware.UserResolver) http.Handler {
	mux := http.NewServeMux()
	protect := middleware.RequireUser(resolver)

	mux.HandleFunc("POST /auth/signup", h.Auth.Signup)
	mux.HandleFunc("POST /auth/login", h.Auth.Login)

	mux.Handle("GET /api/credit/status", protect(http.HandlerFunc(h.Credit.Status)))
	mux.Handle("POST /api/credit/use", protect(http.HandlerFunc(h.Credit.Use)))
	mux.Handle("POST /api/credit/topup-request", protect(http.HandlerFunc(h.Credit.RequestTopup)))
	mux.Handle("POST /api/credit/verify-payment", protect(http.HandlerFunc(h.Credit.VerifyPayment)))

	mux.Handle("POST /api/farming/analyze", protect(http.HandlerFunc(h.Farming.Analyze)))
	mux.Handle("POST /api/farming/start", protect(http.HandlerFunc(h.Farming.Start)))
	mux.Handle("GET /api/farming/logs/{project_id}", protect(http.HandlerFunc(h.Farming.Logs)))
	mux.Handle("GET /api/farming/my", protect(http.HandlerFunc(h.Farming.My)))
	mux.HandleFunc("GET /api/farming/chains", h.Farming.Chains)
	mux.Handle("POST /api/farming/save", protect(http.HandlerFunc(h.Farming.Save)))

	mux.Handle("POST /api/analyze", protect(http.HandlerFunc(h.Research.Analyze)))
	mux.Handle("POST /api/analyze/fetcher", protect(http.HandlerFunc(h.Research.RunFetcher)))
	mux.Handle("POST /api/analyze/history", protect(http.HandlerFunc(h.Research.History)))
	mux.Handle("POST /api/analyze/delete", protect(http.HandlerFunc(h.Research.Delete)))

	mux.Handle("POST /api/twitter/post", protect(http.HandlerFunc(h.Twitter.CreatePost)))
	mux.Handle("POST /api/twitter/thread", protect(http.HandlerFunc(h.Twitter.CreateThread)))
	mux.Handle("GET /api/twitter/posts", protect(http.HandlerFunc(h.Twitter.Posts)))
	mux.Handle("GET /api/twitter/threads", protect(http.HandlerFunc(h.Twitter.Threads)))
	mux.Handle("POST /api/twitter/connect", protect(http.HandlerFunc(h.Twitter.Connect)))

	mux.Handle("POST /api/chat/send", protect(http.HandlerFunc(h.Chat.Send)))
	mux.Handle("GET /api/chat/threads", protect(http.HandlerFunc(h.Chat.Threads)))
	mux.Handle("GET /api/chat/thread/{thread_id}", protect(http.HandlerFunc(h.Chat.Thread)))

	mux.HandleFunc("POST /api/waitlist", h.Waitlist.Join)
	mux.HandleFunc("GET /api/waitlist/{code}", h.Waitlist.ReferralData)

	mux.HandleFunc("POST /api/feedback/submit", h.Feedback.Submit)

	mux.HandleFunc("GET /api/airdrop/top", h.Airdrop.Top)
	mux.HandleFunc("GET /api/airdrop/latest", h.Airdrop.Latest)
	mux.Handle("POST /api/airdrop/save", protect(http.HandlerFunc(h.Airdrop.Save)))
	mux.Handle("GET /api/airdrop/mine", protect(http.HandlerFunc(h.Airdrop.Mine)))

	return mux
}

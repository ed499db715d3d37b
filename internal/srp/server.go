package srp

import (
	"encoding/hex"
	"math/big"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/idelchi/cryptopals/internal/randutil"
)

// StartRequest opens a login.
type StartRequest struct {
	Email  string `binding:"required" json:"email"`
	Public string `binding:"required" json:"public"`
}

// StartResponse carries the salt and server public value, hex encoded.
type StartResponse struct {
	Salt   string `json:"salt"`
	Public string `json:"public"`
}

// VerifyRequest proves knowledge of the session key.
type VerifyRequest struct {
	Email string `binding:"required" json:"email"`
	Proof string `binding:"required" json:"proof"`
}

// VerifyResponse returns the session token of a successful login.
type VerifyResponse struct {
	Session string `json:"session"`
}

// ErrorResponse describes a rejected request.
type ErrorResponse struct {
	Message string `json:"message"`
}

type user struct {
	salt     []byte
	verifier *big.Int
}

// Server stores password verifiers and runs the SRP handshake.
type Server struct {
	params Params

	mu       sync.Mutex
	users    map[string]user
	pending  map[string][]byte
	sessions map[string]string
}

// NewServer creates a server with no users.
func NewServer(params Params) *Server {
	return &Server{
		params:   params,
		users:    make(map[string]user),
		pending:  make(map[string][]byte),
		sessions: make(map[string]string),
	}
}

// Register stores a salted verifier for email.
func (s *Server) Register(email, password string) {
	salt := randutil.Bytes(SaltSize)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[email] = user{salt: salt, verifier: s.params.Verifier(salt, password)}
}

// Session returns the email a session token belongs to.
func (s *Server) Session(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, ok := s.sessions[token]

	return email, ok
}

// Router returns a gin engine serving POST /srp/start and POST /srp/verify.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	group := r.Group("/srp")
	group.POST("/start", s.start)
	group.POST("/verify", s.verify)

	return r
}

func (s *Server) start(ctx *gin.Context) {
	var req StartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request: " + err.Error()})

		return
	}

	clientPublic, ok := new(big.Int).SetString(req.Public, 16)
	if !ok {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid public value"})

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[req.Email]
	if !ok {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: "unknown user"})

		return
	}

	b := randutil.BigBetween(big.NewInt(1), s.params.N)

	public := new(big.Int).Mul(s.params.K, u.verifier)
	public.Add(public, new(big.Int).Exp(s.params.G, b, s.params.N))
	public.Mod(public, s.params.N)

	secret := s.params.serverSecret(clientPublic, u.verifier, Scrambler(clientPublic, public), b)
	s.pending[req.Email] = Proof(SessionKey(secret), u.salt)

	ctx.JSON(http.StatusOK, StartResponse{Salt: hex.EncodeToString(u.salt), Public: public.Text(16)})
}

func (s *Server) verify(ctx *gin.Context) {
	var req VerifyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request: " + err.Error()})

		return
	}

	proof, err := hex.DecodeString(req.Proof)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid proof encoding"})

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	want, ok := s.pending[req.Email]
	delete(s.pending, req.Email)

	if !ok || !ValidProof(want, proof) {
		ctx.JSON(http.StatusUnauthorized, ErrorResponse{Message: "invalid proof"})

		return
	}

	token := uuid.NewString()
	s.sessions[token] = req.Email

	ctx.JSON(http.StatusOK, VerifyResponse{Session: token})
}

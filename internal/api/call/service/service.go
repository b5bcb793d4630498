package callService

import (
	"ProjectRiya/internal/api/call"
	callRepository "ProjectRiya/internal/api/call/repository"
	"ProjectRiya/internal/entity"
	"ProjectRiya/pkg/livekit"
	"ProjectRiya/pkg/nlp"
	"ProjectRiya/pkg/output"
	redisPkg "ProjectRiya/pkg/redis"
	"ProjectRiya/pkg/s3"
	"ProjectRiya/pkg/utils"
	whatsappPkg "ProjectRiya/pkg/whatsapp"
	"context"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// SummaryProvider condenses a finished survey into a short note for
// service center staff. Both the Gemini and the OpenAI clients satisfy it.
type SummaryProvider interface {
	SummarizeFeedback(ctx context.Context, answers map[string]interface{}, transcript []string) (string, error)
}

type ICallService interface {
	StartCall(ctx context.Context, req call.StartCallRequest) (*call.StartCallResponse, error)
	GetCalls(ctx context.Context, page, limit int) ([]entity.CallRecord, int, error)
	GetCall(ctx context.Context, callID string) (*call.CallResponse, error)
	GetCallResult(ctx context.Context, callID string) (*output.Result, error)
	EndCall(ctx context.Context, callID string) error
	DeleteCall(ctx context.Context, callID string) error
	TestExtraction(ctx context.Context, req call.ExtractionTestRequest) (*call.ExtractionTestResponse, error)
	Shutdown(ctx context.Context)
}

type callService struct {
	log         *logrus.Logger
	callRepo    callRepository.Repository
	dialer      livekit.IDialer
	writer      output.IWriter
	extractor   *nlp.AnswerExtractor
	redis       redisPkg.IRedis
	s3Client    s3.ItfS3
	summarizer  SummaryProvider
	whatsapp    whatsappPkg.IWhatsappSender
	utils       utils.IUtils
	alertNumber string

	mu      sync.Mutex
	running map[string]*runningCall
	wg      sync.WaitGroup
}

type runningCall struct {
	cancel context.CancelFunc
}

func New(
	log *logrus.Logger,
	callRepo callRepository.Repository,
	dialer livekit.IDialer,
	writer output.IWriter,
	extractor *nlp.AnswerExtractor,
	redis redisPkg.IRedis,
	s3Client s3.ItfS3,
	summarizer SummaryProvider,
	whatsapp whatsappPkg.IWhatsappSender,
	utils utils.IUtils,
) ICallService {
	return &callService{
		log:         log,
		callRepo:    callRepo,
		dialer:      dialer,
		writer:      writer,
		extractor:   extractor,
		redis:       redis,
		s3Client:    s3Client,
		summarizer:  summarizer,
		whatsapp:    whatsapp,
		utils:       utils,
		alertNumber: os.Getenv("WHATSAPP_ALERT_NUMBER"),
		running:     make(map[string]*runningCall),
	}
}

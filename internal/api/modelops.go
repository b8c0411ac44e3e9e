package api

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/mealwise/backend/internal/ml"
	"github.com/mealwise/backend/internal/pkg/logger"
	"github.com/mealwise/backend/internal/service"
)

// ModelHandler owns the in-process model instances, exposes retraining
// and prediction, and checkpoints learned coefficients so they survive
// restarts. Model state is guarded by a mutex: training and prediction
// for the same model serialize here.
type ModelHandler struct {
	activity    *service.ActivityService
	preferences *service.PreferenceService
	trend       *service.TrendService
	store       *service.ModelStore
	log         *logger.Logger

	mu        sync.Mutex
	actModel  *ml.Classifier
	prefModel *ml.Classifier
	prefVocab *ml.Vocabulary
}

// NewModelHandler creates a new ModelHandler instance, restoring any
// existing checkpoints. A missing checkpoint just means starting from an
// untrained model.
func NewModelHandler(
	activity *service.ActivityService,
	preferences *service.PreferenceService,
	trend *service.TrendService,
	store *service.ModelStore,
	log *logger.Logger,
) *ModelHandler {
	h := &ModelHandler{
		activity:    activity,
		preferences: preferences,
		trend:       trend,
		store:       store,
		log:         log,
		actModel:    activity.NewModel(),
		prefModel:   preferences.NewModel(),
		prefVocab:   ml.NewVocabulary(nil),
	}
	h.restore()
	return h
}

func (h *ModelHandler) restore() {
	if h.store == nil {
		return
	}
	ctx := context.Background()
	if clf, err := h.store.LoadActivity(ctx); err == nil {
		h.actModel = clf
	} else if !errors.Is(err, service.ErrModelNotFound) {
		h.log.Warn("failed to restore activity model", "error", err)
	}
	if clf, vocab, err := h.store.LoadPreference(ctx); err == nil {
		h.prefModel = clf
		h.prefVocab = vocab
	} else if !errors.Is(err, service.ErrModelNotFound) {
		h.log.Warn("failed to restore preference model", "error", err)
	}
}

func (h *ModelHandler) RegisterRoutes(router *gin.RouterGroup) {
	m := router.Group("/models")
	{
		m.POST("/activity/train", h.TrainActivity)
		m.POST("/activity/predict/:id", h.PredictActivity)
		m.POST("/preference/train", h.TrainPreference)
		m.POST("/preference/predict/:id", h.PredictPreference)
	}
	router.POST("/users/:id/trend", h.UpdateTrend)
}

// TrainActivity re-reads the full history and updates the activity model.
func (h *ModelHandler) TrainActivity(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clf, err := h.activity.Train(c.Request.Context(), h.actModel)
	if err != nil {
		respondError(c, err)
		return
	}
	h.actModel = clf
	if h.store != nil {
		if err := h.store.SaveActivity(c.Request.Context(), clf); err != nil {
			h.log.Warn("failed to checkpoint activity model", "error", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"trained": clf.Trained()})
}

// PredictActivity infers and persists the user's activity level.
func (h *ModelHandler) PredictActivity(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	level, err := h.activity.Predict(c.Request.Context(), h.actModel, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity_level": level})
}

// TrainPreference re-reads the full meal history and updates the
// preference model and its food vocabulary.
func (h *ModelHandler) TrainPreference(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clf, vocab, err := h.preferences.Train(c.Request.Context(), h.prefModel)
	if err != nil {
		respondError(c, err)
		return
	}
	h.prefModel = clf
	h.prefVocab = vocab
	if h.store != nil {
		if err := h.store.SavePreference(c.Request.Context(), clf, vocab); err != nil {
			h.log.Warn("failed to checkpoint preference model", "error", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"trained": clf.Trained(), "foods": vocab.Len()})
}

// PredictPreference scores one (user, food) pair and persists the score.
func (h *ModelHandler) PredictPreference(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	var req PredictPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	score, err := h.preferences.Predict(c.Request.Context(), h.prefModel, h.prefVocab, id, req.FoodName, req.WasRecommended, req.QuantityG)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": score})
}

// UpdateTrend recomputes and persists the user's weight-trend factors.
func (h *ModelHandler) UpdateTrend(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	gain, loss, err := h.trend.Update(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gain_factor": gain, "loss_factor": loss})
}

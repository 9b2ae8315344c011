package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/dcgoodwin2112/dkan-client-go/internal/http"
	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
)

const (
	harvestPlansPath = "/api/1/harvest/plans"
	harvestRunsPath  = "/api/1/harvest/runs"
)

// HarvestsClient implements dkan.HarvestsClient.
type HarvestsClient struct {
	httpClient *http.Client
}

// NewHarvestsClient creates a new harvests client.
func NewHarvestsClient(httpClient *http.Client) *HarvestsClient {
	return &HarvestsClient{
		httpClient: httpClient,
	}
}

// ListPlans implements dkan.HarvestsClient.ListPlans, returning plan
// identifiers.
func (c *HarvestsClient) ListPlans(ctx context.Context) ([]string, error) {
	resp, err := c.httpClient.Get(ctx, harvestPlansPath, nil)
	if err != nil {
		return nil, fmt.Errorf("listing harvest plans: %w", err)
	}

	plans, err := dkan.DecodeItems[string](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing harvest plan list: %w", err)
	}

	return plans, nil
}

// GetPlan implements dkan.HarvestsClient.GetPlan.
func (c *HarvestsClient) GetPlan(ctx context.Context, planID string) (*dkan.HarvestPlan, error) {
	if planID == "" {
		return nil, dkan.ErrPlanIDRequired
	}

	resp, err := c.httpClient.Get(ctx, harvestPlansPath+"/"+planID, nil)
	if err != nil {
		return nil, fmt.Errorf("getting harvest plan: %w", err)
	}

	var plan dkan.HarvestPlan

	err = json.Unmarshal(resp.Body, &plan)
	if err != nil {
		return nil, fmt.Errorf("parsing harvest plan: %w", err)
	}

	return &plan, nil
}

// RegisterPlan implements dkan.HarvestsClient.RegisterPlan.
func (c *HarvestsClient) RegisterPlan(ctx context.Context, plan *dkan.HarvestPlan) (*dkan.MetastoreWriteResponse, error) {
	resp, err := c.httpClient.Post(ctx, harvestPlansPath, plan)
	if err != nil {
		return nil, fmt.Errorf("registering harvest plan: %w", err)
	}

	return decodeWriteResponse(resp.Body, "harvest plan")
}

// ListRuns implements dkan.HarvestsClient.ListRuns. Runs are scoped to
// exactly one plan.
func (c *HarvestsClient) ListRuns(ctx context.Context, planID string) ([]string, error) {
	if planID == "" {
		return nil, dkan.ErrPlanIDRequired
	}

	query := url.Values{}
	query.Set("plan", planID)

	resp, err := c.httpClient.Get(ctx, harvestRunsPath, query)
	if err != nil {
		return nil, fmt.Errorf("listing harvest runs: %w", err)
	}

	runs, err := dkan.DecodeItems[string](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing harvest run list: %w", err)
	}

	return runs, nil
}

// GetRun implements dkan.HarvestsClient.GetRun.
func (c *HarvestsClient) GetRun(ctx context.Context, planID, runID string) (*dkan.HarvestRun, error) {
	if planID == "" {
		return nil, dkan.ErrPlanIDRequired
	}

	query := url.Values{}
	query.Set("plan", planID)

	resp, err := c.httpClient.Get(ctx, harvestRunsPath+"/"+runID, query)
	if err != nil {
		return nil, fmt.Errorf("getting harvest run: %w", err)
	}

	run, err := decodeRun(resp.Body)
	if err != nil {
		return nil, err
	}

	if run.Identifier == "" {
		run.Identifier = runID
	}

	return run, nil
}

// Run implements dkan.HarvestsClient.Run, starting a new run of the plan.
func (c *HarvestsClient) Run(ctx context.Context, planID string) (*dkan.HarvestRun, error) {
	if planID == "" {
		return nil, dkan.ErrPlanIDRequired
	}

	body := map[string]string{"plan_id": planID}

	resp, err := c.httpClient.Post(ctx, harvestRunsPath, body)
	if err != nil {
		return nil, fmt.Errorf("running harvest: %w", err)
	}

	return decodeRun(resp.Body)
}

func decodeRun(body []byte) (*dkan.HarvestRun, error) {
	var run dkan.HarvestRun

	err := json.Unmarshal(body, &run)
	if err != nil {
		return nil, fmt.Errorf("parsing harvest run: %w", err)
	}

	return &run, nil
}

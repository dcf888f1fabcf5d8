package e2e

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/cucumber/godog"

	"regadmin/internal/registrations/models"
	"regadmin/internal/registrations/view"
)

// RegisterSteps registers all step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Background steps
	ctx.Step(`^the registrations admin is running$`, tc.adminIsRunning)

	// Source setup
	ctx.Step(`^the registrations source returns:$`, tc.sourceReturns)
	ctx.Step(`^the registrations source fails with "([^"]*)"$`, tc.sourceFails)

	// Request steps
	ctx.Step(`^I open the admin page$`, tc.openAdminPage)
	ctx.Step(`^I view the registrations$`, tc.viewRegistrations)
	ctx.Step(`^I search the registrations for "([^"]*)"$`, tc.searchRegistrations)
	ctx.Step(`^I request a refresh$`, tc.requestRefresh)

	// Assertion steps
	ctx.Step(`^the response status should be (\d+)$`, tc.responseStatusShouldBe)
	ctx.Step(`^the table should show (\d+) rows?$`, tc.tableShouldShowRows)
	ctx.Step(`^the table state should be "([^"]*)"$`, tc.tableStateShouldBe)
	ctx.Step(`^row (\d+) "([^"]*)" should be "([^"]*)"$`, tc.rowFieldShouldBe)
	ctx.Step(`^row (\d+) should be styled as pending$`, tc.rowShouldBePending)
	ctx.Step(`^the stats should show total (\d+) and filtered (\d+)$`, tc.statsShouldShow)
	ctx.Step(`^the page should not be loading$`, tc.pageShouldNotBeLoading)
	ctx.Step(`^there should be (\d+) (success|error) notifications?$`, tc.notificationsShouldBe)
	ctx.Step(`^the table fragment for "([^"]*)" should contain "([^"]*)"$`, tc.fragmentShouldContain)
}

func (tc *TestContext) adminIsRunning(ctx context.Context) error {
	if tc.Server == nil {
		return errors.New("server not started")
	}
	return nil
}

func (tc *TestContext) sourceReturns(ctx context.Context, table *godog.Table) error {
	if len(table.Rows) == 0 {
		return errors.New("table needs a header row")
	}
	header := table.Rows[0].Cells

	var records []*models.Registration
	for _, row := range table.Rows[1:] {
		raw := make(map[string]any, len(header))
		for i, cell := range row.Cells {
			raw[header[i].Value] = cell.Value
		}
		records = append(records, models.FromMap(raw))
	}
	tc.Source.set(records, nil)
	return nil
}

func (tc *TestContext) sourceFails(ctx context.Context, message string) error {
	tc.Source.set(nil, errors.New(message))
	return nil
}

// openAdminPage loads the page while its first fetch is held, so the
// fetch's notices are left for the next view, then lets the fetch finish.
func (tc *TestContext) openAdminPage(ctx context.Context) error {
	release := tc.Source.hold()
	defer tc.Page.Wait()
	defer release()

	if err := tc.GET("/admin"); err != nil {
		return err
	}
	if !tc.ResponseContains(`data-loading="true"`) {
		return fmt.Errorf("expected the first render to be loading\nResponse: %s", tc.LastResponseBody)
	}
	return nil
}

func (tc *TestContext) viewRegistrations(ctx context.Context) error {
	return tc.GET("/api/registrations")
}

func (tc *TestContext) searchRegistrations(ctx context.Context, term string) error {
	return tc.GET("/api/registrations?q=" + url.QueryEscape(term))
}

func (tc *TestContext) requestRefresh(ctx context.Context) error {
	if err := tc.POST("/admin/registrations/refresh"); err != nil {
		return err
	}
	tc.Page.Wait()
	return nil
}

func (tc *TestContext) responseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	if tc.LastResponse == nil {
		return errNoResponse
	}
	if tc.LastResponse.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d but got %d", expectedStatus, tc.LastResponse.StatusCode)
	}
	return nil
}

func (tc *TestContext) tableShouldShowRows(ctx context.Context, n int) error {
	p, err := tc.View()
	if err != nil {
		return err
	}
	if len(p.Rows) != n {
		return fmt.Errorf("expected %d rows but got %d", n, len(p.Rows))
	}
	return nil
}

func (tc *TestContext) tableStateShouldBe(ctx context.Context, state string) error {
	p, err := tc.View()
	if err != nil {
		return err
	}
	if string(p.State) != state {
		return fmt.Errorf("expected state %q but got %q", state, p.State)
	}
	return nil
}

func (tc *TestContext) row(n int) (view.Row, error) {
	p, err := tc.View()
	if err != nil {
		return view.Row{}, err
	}
	if n < 1 || n > len(p.Rows) {
		return view.Row{}, fmt.Errorf("row %d out of range, table has %d rows", n, len(p.Rows))
	}
	return p.Rows[n-1], nil
}

func (tc *TestContext) rowFieldShouldBe(ctx context.Context, n int, field, expected string) error {
	row, err := tc.row(n)
	if err != nil {
		return err
	}
	values := map[string]string{
		"name":              row.Name,
		"mobile":            row.Mobile,
		"customer_id":       row.CustomerID,
		"ward":              row.Ward,
		"category_details":  row.Category,
		"status":            row.Status,
		"registration_date": row.Date,
	}
	actual, ok := values[field]
	if !ok {
		return fmt.Errorf("unknown row field %s", field)
	}
	if actual != expected {
		return fmt.Errorf("row %d %s: expected %q but got %q", n, field, expected, actual)
	}
	return nil
}

func (tc *TestContext) rowShouldBePending(ctx context.Context, n int) error {
	row, err := tc.row(n)
	if err != nil {
		return err
	}
	if !row.Pending() {
		return fmt.Errorf("row %d tone is %q", n, row.StatusTone)
	}
	return nil
}

func (tc *TestContext) statsShouldShow(ctx context.Context, total, filtered int) error {
	p, err := tc.View()
	if err != nil {
		return err
	}
	if p.Total != total || p.Filtered != filtered {
		return fmt.Errorf("expected total=%d filtered=%d but got total=%d filtered=%d", total, filtered, p.Total, p.Filtered)
	}
	return nil
}

func (tc *TestContext) pageShouldNotBeLoading(ctx context.Context) error {
	p, err := tc.View()
	if err != nil {
		return err
	}
	if p.Loading {
		return errors.New("page still loading")
	}
	return nil
}

func (tc *TestContext) notificationsShouldBe(ctx context.Context, n int, kind string) error {
	p, err := tc.View()
	if err != nil {
		return err
	}
	count := 0
	for _, notice := range p.Notices {
		if notice.Destructive() == (kind == "error") {
			count++
		}
	}
	if count != n {
		return fmt.Errorf("expected %d %s notifications but got %d: %+v", n, kind, count, p.Notices)
	}
	return nil
}

func (tc *TestContext) fragmentShouldContain(ctx context.Context, term, text string) error {
	if err := tc.GET("/admin/registrations/table?q=" + url.QueryEscape(term)); err != nil {
		return err
	}
	if !tc.ResponseContains(text) {
		return fmt.Errorf("response does not contain %q\nResponse: %s", text, tc.LastResponseBody)
	}
	return nil
}

package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/playwright-community/playwright-go"
	"github.com/webshop-qa/storefront-e2e/session"
)

// visibilityProbeTimeout bounds the non-failing "is it there?" checks,
// which should answer quickly instead of burning the full interaction
// timeout on an element that is legitimately absent.
const visibilityProbeTimeout = 5 * time.Second

// ElementNotReadyError is returned when an element did not reach an
// actionable state within the session timeout. It is a test failure,
// distinct from both assertion failures and infrastructure errors.
type ElementNotReadyError struct {
	Selector string
	Action   string
	Timeout  time.Duration
	Err      error
}

func (e *ElementNotReadyError) Error() string {
	return fmt.Sprintf("element %s not ready for %s within %s: %s", e.Selector, e.Action, e.Timeout, e.Err)
}

func (e *ElementNotReadyError) Unwrap() error {
	return e.Err
}

// Page is the base capability set shared by every page object.
type Page interface {
	Name() string
	WaitUntilReady() error
}

// base provides the resilient interaction primitives every page
// object builds on. Each primitive waits for the target element to be
// actionable, bounded by the session timeout.
type base struct {
	session *session.Session
	logger  log.Logger
}

func newBase(sess *session.Session, logger log.Logger) base {
	return base{session: sess, logger: logger}
}

func (b base) page() playwright.Page {
	return b.session.Page()
}

func (b base) timeoutMS() float64 {
	return float64(b.session.Timeout().Milliseconds())
}

func (b base) navigate(url string) error {
	if _, err := b.page().Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(b.timeoutMS()),
	}); err != nil {
		return &ElementNotReadyError{Selector: url, Action: "navigate", Timeout: b.session.Timeout(), Err: err}
	}
	b.logger.Debugf("Navigated to: %s", url)
	return nil
}

func (b base) waitVisible(selector string) error {
	if err := b.page().Locator(selector).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(b.timeoutMS()),
	}); err != nil {
		return &ElementNotReadyError{Selector: selector, Action: "wait for visible", Timeout: b.session.Timeout(), Err: err}
	}
	return nil
}

func (b base) waitHidden(selector string) error {
	if err := b.page().Locator(selector).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateHidden,
		Timeout: playwright.Float(b.timeoutMS()),
	}); err != nil {
		return &ElementNotReadyError{Selector: selector, Action: "wait for hidden", Timeout: b.session.Timeout(), Err: err}
	}
	return nil
}

func (b base) click(selector string) error {
	if err := b.waitVisible(selector); err != nil {
		return err
	}
	if err := b.page().Locator(selector).Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(b.timeoutMS()),
	}); err != nil {
		return &ElementNotReadyError{Selector: selector, Action: "click", Timeout: b.session.Timeout(), Err: err}
	}
	b.logger.Debugf("Clicked element: %s", selector)
	return nil
}

func (b base) fill(selector, value string) error {
	if err := b.waitVisible(selector); err != nil {
		return err
	}
	locator := b.page().Locator(selector)
	if err := locator.Clear(playwright.LocatorClearOptions{
		Timeout: playwright.Float(b.timeoutMS()),
	}); err != nil {
		return &ElementNotReadyError{Selector: selector, Action: "clear", Timeout: b.session.Timeout(), Err: err}
	}
	if err := locator.Fill(value, playwright.LocatorFillOptions{
		Timeout: playwright.Float(b.timeoutMS()),
	}); err != nil {
		return &ElementNotReadyError{Selector: selector, Action: "fill", Timeout: b.session.Timeout(), Err: err}
	}
	b.logger.Debugf("Filled input: %s", selector)
	return nil
}

func (b base) text(selector string) (string, error) {
	if err := b.waitVisible(selector); err != nil {
		return "", err
	}
	content, err := b.page().Locator(selector).TextContent(playwright.LocatorTextContentOptions{
		Timeout: playwright.Float(b.timeoutMS()),
	})
	if err != nil {
		return "", &ElementNotReadyError{Selector: selector, Action: "read text", Timeout: b.session.Timeout(), Err: err}
	}
	return strings.TrimSpace(content), nil
}

func (b base) allTexts(selector string) ([]string, error) {
	if err := b.waitVisible(selector); err != nil {
		return nil, err
	}
	texts, err := b.page().Locator(selector).AllTextContents()
	if err != nil {
		return nil, &ElementNotReadyError{Selector: selector, Action: "read texts", Timeout: b.session.Timeout(), Err: err}
	}
	for i, text := range texts {
		texts[i] = strings.TrimSpace(text)
	}
	return texts, nil
}

func (b base) count(selector string) (int, error) {
	count, err := b.page().Locator(selector).Count()
	if err != nil {
		return 0, &ElementNotReadyError{Selector: selector, Action: "count", Timeout: b.session.Timeout(), Err: err}
	}
	return count, nil
}

// isVisible probes element visibility with a short timeout and never
// fails: an absent element reads as not visible.
func (b base) isVisible(selector string) bool {
	timeout := visibilityProbeTimeout
	if b.session.Timeout() < timeout {
		timeout = b.session.Timeout()
	}
	if err := b.page().Locator(selector).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	}); err != nil {
		return false
	}
	return true
}

func (b base) selectByValue(selector, value string) error {
	if err := b.waitVisible(selector); err != nil {
		return err
	}
	if _, err := b.page().Locator(selector).SelectOption(playwright.SelectOptionValues{
		Values: &[]string{value},
	}, playwright.LocatorSelectOptionOptions{
		Timeout: playwright.Float(b.timeoutMS()),
	}); err != nil {
		return &ElementNotReadyError{Selector: selector, Action: "select option", Timeout: b.session.Timeout(), Err: err}
	}
	return nil
}

func (b base) currentURL() string {
	return b.page().URL()
}

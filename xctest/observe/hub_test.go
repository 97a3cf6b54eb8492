package observe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockObserver struct {
	mock.Mock
}

func (m *mockObserver) BundleWillStart(bundleName string) { m.Called(bundleName) }
func (m *mockObserver) BundleDidFinish(bundleName string, summary Summary) {
	m.Called(bundleName, summary)
}
func (m *mockObserver) SuiteWillStart(suiteName string) { m.Called(suiteName) }
func (m *mockObserver) SuiteDidFinish(suiteName string, summary Summary) {
	m.Called(suiteName, summary)
}
func (m *mockObserver) CaseWillStart(caseName string) { m.Called(caseName) }
func (m *mockObserver) CaseDidFinish(caseName string, summary Summary) {
	m.Called(caseName, summary)
}
func (m *mockObserver) CaseDidFail(caseName, description string, location Location) {
	m.Called(caseName, description, location)
}
func (m *mockObserver) CaseWasSkipped(caseName, description string, location Location) {
	m.Called(caseName, description, location)
}

type panickingObserver struct{}

func (panickingObserver) BundleWillStart(string)              { panic("boom") }
func (panickingObserver) BundleDidFinish(string, Summary)      {}
func (panickingObserver) SuiteWillStart(string)                {}
func (panickingObserver) SuiteDidFinish(string, Summary)       {}
func (panickingObserver) CaseWillStart(string)                 {}
func (panickingObserver) CaseDidFinish(string, Summary)        {}
func (panickingObserver) CaseDidFail(string, string, Location) {}
func (panickingObserver) CaseWasSkipped(string, string, Location) {}

func TestHub_DispatchesInInsertionOrder(t *testing.T) {
	hub := New()
	var order []string

	first := &mockObserver{}
	first.On("CaseWillStart", "A.t1").Run(func(args mock.Arguments) {
		order = append(order, "first")
	}).Return()
	second := &mockObserver{}
	second.On("CaseWillStart", "A.t1").Run(func(args mock.Arguments) {
		order = append(order, "second")
	}).Return()

	hub.Add(first)
	hub.Add(second)
	hub.CaseWillStart("A.t1")

	assert.Equal(t, []string{"first", "second"}, order)
	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestHub_Remove(t *testing.T) {
	hub := New()
	obs := &mockObserver{}
	id := hub.Add(obs)
	hub.Remove(id)

	hub.CaseWillStart("A.t1")
	obs.AssertNotCalled(t, "CaseWillStart", mock.Anything)
}

func TestHub_TolerantOfPanickingObserver(t *testing.T) {
	hub := New()
	hub.Add(panickingObserver{})

	next := &mockObserver{}
	next.On("BundleWillStart", "bundle").Return()
	hub.Add(next)

	assert.NotPanics(t, func() { hub.BundleWillStart("bundle") })
	next.AssertExpectations(t)
}

func TestHub_CaseDidFail(t *testing.T) {
	hub := New()
	obs := &mockObserver{}
	loc := Location{File: "a_test.go", Line: 5}
	obs.On("CaseDidFail", "A.t1", "boom", loc).Return()
	hub.Add(obs)

	hub.CaseDidFail("A.t1", "boom", loc)
	obs.AssertExpectations(t)
}

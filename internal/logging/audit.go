// Package logging provides audit logging that outputs Mangle-queryable facts.
// Audit logs are structured events that can be parsed into Mangle predicates
// for declarative querying and analysis of engine activity.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// AUDIT EVENT TYPES - Maps to Mangle predicates
// =============================================================================

// AuditEventType defines the type of audit event (maps to a Mangle predicate).
type AuditEventType string

const (
	// Working memory events -> fact_op/5
	AuditFactInsert         AuditEventType = "fact_insert"
	AuditFactInsertLogical  AuditEventType = "fact_insert_logical"
	AuditFactRetract        AuditEventType = "fact_retract"
	AuditFactRetractLogical AuditEventType = "fact_retract_logical"

	// Activation/scheduler events -> activation_event/5
	AuditActivationAdd    AuditEventType = "activation_add"
	AuditActivationRemove AuditEventType = "activation_remove"
	AuditRuleFire         AuditEventType = "rule_fire"

	// Truth maintenance events -> tms_event/4
	AuditTMSSupport        AuditEventType = "tms_support"
	AuditTMSUnsupport      AuditEventType = "tms_unsupport"
	AuditTMSCascadeRetract AuditEventType = "tms_cascade_retract"

	// Query events -> query_event/4
	AuditQueryRun AuditEventType = "query_run"

	// Session lifecycle -> session_event/3
	AuditSessionOpen  AuditEventType = "session_open"
	AuditSessionFire  AuditEventType = "session_fire"
	AuditSessionClose AuditEventType = "session_close"

	// Error events -> error_event/4
	AuditErrorGeneric AuditEventType = "error_generic"
	AuditErrorRHS     AuditEventType = "error_rhs"
	AuditErrorInvalid AuditEventType = "error_invalid_rule"
)

// =============================================================================
// AUDIT EVENT STRUCTURE
// =============================================================================

// AuditEvent represents a structured audit log entry that can be parsed to Mangle.
// Format: predicate(timestamp, ...args)
type AuditEvent struct {
	Timestamp  int64                  `json:"ts"`      // Unix milliseconds
	EventType  AuditEventType         `json:"event"`   // Maps to Mangle predicate
	SessionID  string                 `json:"session"` // Session correlation
	NodeID     string                 `json:"node"`    // Network node id, if applicable
	Rule       string                 `json:"rule"`    // Rule/production name
	Target     string                 `json:"target"`  // Fact type or predicate name
	Success    bool                   `json:"success"` // Operation succeeded
	DurationMs int64                  `json:"dur_ms"`  // Duration in milliseconds
	Error      string                 `json:"error"`   // Error message if failed
	Message    string                 `json:"msg"`     // Human-readable message
	Fields     map[string]interface{} `json:"fields"`  // Additional structured fields
	MangleFact string                 `json:"mangle"`  // Pre-formatted Mangle fact
}

// =============================================================================
// AUDIT LOGGER
// =============================================================================

var (
	auditFile   *os.File
	auditMu     sync.Mutex
	auditLogger *AuditLogger
)

// AuditLogger handles structured audit logging with Mangle fact generation.
type AuditLogger struct {
	sessionID string
	nodeID    string
}

// InitAudit initializes the audit logging system.
func InitAudit() error {
	if !IsDebugMode() {
		return nil
	}

	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		return nil // Already initialized
	}

	date := time.Now().Format("2006-01-02")
	auditPath := filepath.Join(logsDir, fmt.Sprintf("%s_audit.log", date))

	file, err := os.OpenFile(auditPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	auditFile = file

	header := fmt.Sprintf("# Audit log started at %s\n# Format: Mangle-queryable structured events\n", time.Now().Format(time.RFC3339))
	auditFile.WriteString(header)

	return nil
}

// CloseAudit closes the audit log file.
func CloseAudit() {
	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		auditFile.Close()
		auditFile = nil
	}
}

// Audit returns the global audit logger.
func Audit() *AuditLogger {
	if auditLogger == nil {
		auditLogger = &AuditLogger{}
	}
	return auditLogger
}

// AuditWithSession creates an audit logger scoped to a session.
func AuditWithSession(sessionID string) *AuditLogger {
	return &AuditLogger{sessionID: sessionID}
}

// AuditWithNode creates an audit logger scoped to a network node.
func AuditWithNode(sessionID, nodeID string) *AuditLogger {
	return &AuditLogger{sessionID: sessionID, nodeID: nodeID}
}

// =============================================================================
// AUDIT LOGGING METHODS
// =============================================================================

// Log writes an audit event.
func (a *AuditLogger) Log(event AuditEvent) {
	if !IsDebugMode() || auditFile == nil {
		return
	}

	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	if event.SessionID == "" && a.sessionID != "" {
		event.SessionID = a.sessionID
	}
	if event.NodeID == "" && a.nodeID != "" {
		event.NodeID = a.nodeID
	}
	if event.Fields == nil {
		event.Fields = make(map[string]interface{})
	}

	event.MangleFact = generateMangleFact(event)

	auditMu.Lock()
	defer auditMu.Unlock()

	data, err := json.Marshal(event)
	if err == nil {
		auditFile.WriteString(string(data) + "\n")
	}
}

// generateMangleFact creates a Mangle-compatible fact string from an event.
func generateMangleFact(e AuditEvent) string {
	switch e.EventType {
	case AuditFactInsert, AuditFactInsertLogical, AuditFactRetract, AuditFactRetractLogical:
		return fmt.Sprintf("fact_op(%d, /%s, \"%s\", \"%s\", %v).",
			e.Timestamp, e.EventType, e.SessionID, e.Target, e.Success)

	case AuditActivationAdd, AuditActivationRemove, AuditRuleFire:
		return fmt.Sprintf("activation_event(%d, /%s, \"%s\", \"%s\", %d).",
			e.Timestamp, e.EventType, e.SessionID, e.Rule, e.DurationMs)

	case AuditTMSSupport, AuditTMSUnsupport, AuditTMSCascadeRetract:
		return fmt.Sprintf("tms_event(%d, /%s, \"%s\", \"%s\").",
			e.Timestamp, e.EventType, e.SessionID, e.NodeID)

	case AuditQueryRun:
		count := 0
		if c, ok := e.Fields["result_count"].(int); ok {
			count = c
		}
		return fmt.Sprintf("query_event(%d, \"%s\", \"%s\", %d).",
			e.Timestamp, e.SessionID, e.Target, count)

	case AuditSessionOpen, AuditSessionFire, AuditSessionClose:
		return fmt.Sprintf("session_event(%d, /%s, \"%s\").",
			e.Timestamp, e.EventType, e.SessionID)

	case AuditErrorGeneric, AuditErrorRHS, AuditErrorInvalid:
		return fmt.Sprintf("error_event(%d, /%s, \"%s\", \"%s\").",
			e.Timestamp, e.EventType, e.Rule, escapeString(e.Error))

	default:
		return fmt.Sprintf("audit_event(%d, /%s, \"%s\", %v).",
			e.Timestamp, e.EventType, escapeString(e.Message), e.Success)
	}
}

func escapeString(s string) string {
	// Escape quotes and backslashes for Mangle strings.
	var b strings.Builder
	b.Grow(len(s) + len(s)/10)

	for _, c := range s {
		switch c {
		case '"':
			b.WriteString("\\\"")
		case '\\':
			b.WriteString("\\\\")
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		case '\t':
			b.WriteString("\\t")
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// =============================================================================
// CONVENIENCE METHODS FOR COMMON EVENTS
// =============================================================================

// FactInsert logs a fact insertion into working memory.
func (a *AuditLogger) FactInsert(factType string, logical bool) {
	eventType := AuditFactInsert
	if logical {
		eventType = AuditFactInsertLogical
	}
	a.Log(AuditEvent{
		EventType: eventType,
		Target:    factType,
		Success:   true,
		Message:   fmt.Sprintf("insert %s (logical=%v)", factType, logical),
	})
}

// FactRetract logs a fact retraction from working memory.
func (a *AuditLogger) FactRetract(factType string, cascaded bool) {
	a.Log(AuditEvent{
		EventType: AuditFactRetract,
		Target:    factType,
		Success:   true,
		Fields:    map[string]interface{}{"cascaded": cascaded},
		Message:   fmt.Sprintf("retract %s (cascaded=%v)", factType, cascaded),
	})
}

// RuleFire logs a production firing its right-hand side.
func (a *AuditLogger) RuleFire(rule string, durationMs int64, err error) {
	success := err == nil
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	a.Log(AuditEvent{
		EventType:  AuditRuleFire,
		Rule:       rule,
		Success:    success,
		DurationMs: durationMs,
		Error:      errMsg,
		Message:    fmt.Sprintf("fired %s (%dms, success=%v)", rule, durationMs, success),
	})
}

// ActivationChange logs an activation being added to or removed from the
// scheduler's queue.
func (a *AuditLogger) ActivationChange(rule string, added bool) {
	eventType := AuditActivationAdd
	if !added {
		eventType = AuditActivationRemove
	}
	a.Log(AuditEvent{
		EventType: eventType,
		Rule:      rule,
		Success:   true,
		Message:   fmt.Sprintf("activation %s: %s", eventType, rule),
	})
}

// TMSSupport logs a logical-insertion support record being created or removed.
func (a *AuditLogger) TMSSupport(nodeID string, added bool) {
	eventType := AuditTMSSupport
	if !added {
		eventType = AuditTMSUnsupport
	}
	a.Log(AuditEvent{
		EventType: eventType,
		NodeID:    nodeID,
		Success:   true,
		Message:   fmt.Sprintf("tms %s node=%s", eventType, nodeID),
	})
}

// TMSCascadeRetract logs a cascading retraction triggered by loss of support.
func (a *AuditLogger) TMSCascadeRetract(nodeID string, count int) {
	a.Log(AuditEvent{
		EventType: AuditTMSCascadeRetract,
		NodeID:    nodeID,
		Success:   true,
		Fields:    map[string]interface{}{"count": count},
		Message:   fmt.Sprintf("tms cascade retract from node=%s (%d facts)", nodeID, count),
	})
}

// QueryRun logs a query execution.
func (a *AuditLogger) QueryRun(queryName string, resultCount int, durationMs int64) {
	a.Log(AuditEvent{
		EventType:  AuditQueryRun,
		Target:     queryName,
		Success:    true,
		DurationMs: durationMs,
		Fields:     map[string]interface{}{"result_count": resultCount},
		Message:    fmt.Sprintf("query %s -> %d results (%dms)", queryName, resultCount, durationMs),
	})
}

// SessionLifecycle logs session open/fire-rules/close.
func (a *AuditLogger) SessionLifecycle(eventType AuditEventType, durationMs int64) {
	a.Log(AuditEvent{
		EventType:  eventType,
		Success:    true,
		DurationMs: durationMs,
		Message:    fmt.Sprintf("session %s", eventType),
	})
}

// Error logs an error event.
func (a *AuditLogger) Error(rule string, err error, eventType AuditEventType) {
	if eventType == "" {
		eventType = AuditErrorGeneric
	}
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	a.Log(AuditEvent{
		EventType: eventType,
		Rule:      rule,
		Success:   false,
		Error:     errMsg,
		Message:   fmt.Sprintf("error in %s: %s", rule, errMsg),
	})
}

package services

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/onegreenvn/title-studio-backend/internal/models"

	"github.com/sirupsen/logrus"
)

// EmptyResponseMessage is shown when the agent returns a 2xx with no body.
const EmptyResponseMessage = "The agent returned an empty response"

// NormalizeAgentBody turns a raw 2xx agent response body into a
// GenerationOutcome. The agent's output location is not contractually fixed,
// so extraction strategies are tried in priority order: the direct result
// field, then the thread output variable, then a reverse scan of the thread
// message history, and finally the body itself as a bare payload. Shape
// trouble never produces a failure; anything that
// cannot be normalized degrades to an opaque success so the user still sees
// the server's answer.
func NormalizeAgentBody(body string) *models.GenerationOutcome {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return opaqueOutcome(EmptyResponseMessage)
	}

	var root interface{}
	if err := json.Unmarshal([]byte(trimmed), &root); err != nil {
		logrus.Warnf("Agent response is not JSON, returning raw body: %v", err)
		return opaqueOutcome(body)
	}

	rootMap, _ := root.(map[string]interface{})

	payload := extractFromResult(rootMap)
	if !hasTitles(payload) {
		if fromThread := extractFromThreadVariables(rootMap); fromThread != nil {
			payload = fromThread
		}
	}
	if !hasTitles(payload) {
		if fromPosts := extractFromThreadPosts(rootMap); fromPosts != nil {
			payload = fromPosts
		}
	}
	// The body may be the bare payload with no envelope at all.
	if payload == nil {
		payload = rootMap
	} else if !hasTitles(payload) && hasTitles(rootMap) {
		payload = rootMap
	}

	rawTitles := titlesFromPayload(payload)
	if rawTitles == nil {
		return opaqueOutcome(bestDisplayText(payload, body))
	}

	candidates := normalizeCandidates(rawTitles)
	sortByRank(candidates)

	return &models.GenerationOutcome{
		Kind:   models.OutcomeTitles,
		Titles: candidates,
	}
}

// FailureOutcome builds the outcome for a transport error or non-2xx
// response. This path bypasses normalization entirely.
func FailureOutcome(statusCode int, message string) *models.GenerationOutcome {
	return &models.GenerationOutcome{
		Kind: models.OutcomeFailure,
		Error: &models.ErrorInfo{
			StatusCode: statusCode,
			Message:    message,
		},
	}
}

func opaqueOutcome(text string) *models.GenerationOutcome {
	return &models.GenerationOutcome{
		Kind:    models.OutcomeOpaque,
		RawText: text,
	}
}

// extractFromResult handles the direct shape: result.output holds the
// payload (possibly string-encoded), or result itself carries titles.
func extractFromResult(root map[string]interface{}) map[string]interface{} {
	if root == nil {
		return nil
	}
	result, ok := root["result"].(map[string]interface{})
	if !ok {
		return nil
	}
	if output, exists := result["output"]; exists {
		return decodePayload(output)
	}
	if _, exists := result["titles"]; exists {
		return result
	}
	return nil
}

// extractFromThreadVariables handles the session shape: the payload lives in
// thread.variables.output.value, string-encoded or already structured.
func extractFromThreadVariables(root map[string]interface{}) map[string]interface{} {
	thread, ok := mapField(root, "thread")
	if !ok {
		return nil
	}
	variables, ok := mapField(thread, "variables")
	if !ok {
		return nil
	}
	output, ok := mapField(variables, "output")
	if !ok {
		return nil
	}
	payload := decodePayload(output["value"])
	if payload == nil {
		return nil
	}
	if inner, ok := mapField(payload, "output"); ok {
		return inner
	}
	return payload
}

// extractFromThreadPosts scans the thread message history from most recent
// backwards for an agent message whose content parses as JSON carrying a
// titles field. Entries that fail to parse are skipped, not errors.
func extractFromThreadPosts(root map[string]interface{}) map[string]interface{} {
	thread, ok := mapField(root, "thread")
	if !ok {
		return nil
	}
	posts, ok := thread["posts"].([]interface{})
	if !ok {
		return nil
	}
	for i := len(posts) - 1; i >= 0; i-- {
		post, ok := posts[i].(map[string]interface{})
		if !ok || !isAgentMessage(post) {
			continue
		}
		content, ok := post["content"].(string)
		if !ok {
			continue
		}
		var payload map[string]interface{}
		if err := json.Unmarshal([]byte(content), &payload); err != nil {
			continue
		}
		if _, exists := payload["titles"]; exists {
			return payload
		}
	}
	return nil
}

func isAgentMessage(post map[string]interface{}) bool {
	postType, _ := post["type"].(string)
	if postType != "message" && postType != "chat_message" {
		return false
	}
	role, _ := post["role"].(string)
	return role == "system" || role == "assistant"
}

// titlesFromPayload applies the final shape normalization: an output array
// is the title list, output.titles is promoted, otherwise titles is used
// directly.
func titlesFromPayload(payload map[string]interface{}) []interface{} {
	if payload == nil {
		return nil
	}
	if output, ok := payload["output"].([]interface{}); ok {
		return output
	}
	if output, ok := mapField(payload, "output"); ok {
		if titles, ok := output["titles"].([]interface{}); ok {
			return titles
		}
	}
	if titles, ok := payload["titles"].([]interface{}); ok {
		return titles
	}
	return nil
}

// normalizeCandidates promotes each raw element to a TitleCandidate. Bare
// strings become candidates with only the title set; objects are mapped
// field-for-field.
func normalizeCandidates(rawTitles []interface{}) []models.TitleCandidate {
	candidates := make([]models.TitleCandidate, 0, len(rawTitles))
	for _, raw := range rawTitles {
		switch value := raw.(type) {
		case string:
			candidates = append(candidates, models.TitleCandidate{YoutubeTitle: value})
		case map[string]interface{}:
			candidate := models.TitleCandidate{}
			candidate.YoutubeTitle, _ = value["youtube_title"].(string)
			candidate.ThumbnailText, _ = value["thumbnail_text"].(string)
			candidate.CtrRationale, _ = value["ctr_rationale"].(string)
			if rank, ok := value["rank"].(float64); ok {
				r := int(rank)
				candidate.Rank = &r
			}
			candidates = append(candidates, candidate)
		default:
			logrus.Warnf("Skipping title entry of unexpected type %T", raw)
		}
	}
	return candidates
}

// sortByRank orders candidates ascending by rank. A comparison involving a
// missing rank is a no-op, so lists with partial or absent ranks keep their
// original relative order.
func sortByRank(candidates []models.TitleCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Rank == nil || candidates[j].Rank == nil {
			return false
		}
		return *candidates[i].Rank < *candidates[j].Rank
	})
}

// decodePayload accepts a payload that may be a JSON object or a
// string-encoded one. Anything else yields nil so the next strategy runs.
func decodePayload(value interface{}) map[string]interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return v
	case string:
		var payload map[string]interface{}
		if err := json.Unmarshal([]byte(v), &payload); err != nil {
			return nil
		}
		return payload
	default:
		return nil
	}
}

// bestDisplayText prefers the extracted payload over the raw body so the
// user sees the most specific content the agent produced.
func bestDisplayText(payload map[string]interface{}, body string) string {
	if payload != nil {
		if encoded, err := json.MarshalIndent(payload, "", "  "); err == nil {
			return string(encoded)
		}
	}
	return body
}

func hasTitles(payload map[string]interface{}) bool {
	if payload == nil {
		return false
	}
	_, exists := payload["titles"]
	return exists
}

func mapField(parent map[string]interface{}, key string) (map[string]interface{}, bool) {
	value, ok := parent[key].(map[string]interface{})
	return value, ok
}

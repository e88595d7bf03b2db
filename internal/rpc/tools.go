package rpc

import (
	"encoding/json"
	"time"
)

func (s *Server) listTools() interface{} {
	issueProp := map[string]interface{}{"type": "integer", "description": "Issue or pull request number"}
	userProp := map[string]interface{}{"type": "string"}

	return map[string]interface{}{
		"tools": []interface{}{
			map[string]interface{}{
				"name":        "get_issue_history",
				"description": "Get the full chronological event history of an issue.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"number": issueProp,
						"pull_request": map[string]interface{}{
							"type":        "boolean",
							"description": "Also merge the pull request's commits and reviews",
							"default":     false,
						},
					},
					"required": []string{"number"},
				},
			},
			map[string]interface{}{
				"name":        "has_commented",
				"description": "Whether a user has ever commented on an issue.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"number":   issueProp,
						"username": userProp,
					},
					"required": []string{"number", "username"},
				},
			},
			map[string]interface{}{
				"name":        "last_commented_at",
				"description": "When a user last commented on an issue (RFC3339, empty if never).",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"number":   issueProp,
						"username": userProp,
					},
					"required": []string{"number", "username"},
				},
			},
			map[string]interface{}{
				"name":        "get_commands",
				"description": "Extract bot command tokens a user issued via comments and label changes.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"number":   issueProp,
						"username": userProp,
						"command_keys": map[string]interface{}{
							"type":  "array",
							"items": map[string]interface{}{"type": "string"},
						},
					},
					"required": []string{"number", "username", "command_keys"},
				},
			},
			map[string]interface{}{
				"name":        "get_changed_labels",
				"description": "List labels that were ever set or unset on an issue, optionally by prefix.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"number": issueProp,
						"prefix": map[string]interface{}{"type": "string"},
					},
					"required": []string{"number"},
				},
			},
			map[string]interface{}{
				"name":        "label_is_waffling",
				"description": "Whether a label has churned (set/unset) at least limit times.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"number": issueProp,
						"label":  map[string]interface{}{"type": "string"},
						"limit":  map[string]interface{}{"type": "integer", "default": 20},
					},
					"required": []string{"number", "label"},
				},
			},
			map[string]interface{}{
				"name":        "get_boilerplate_comments",
				"description": "List the boilerplate template names the bot posted on an issue.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"number":   issueProp,
						"bot_name": userProp,
					},
					"required": []string{"number"},
				},
			},
			map[string]interface{}{
				"name":        "get_rate_limit",
				"description": "Get the remaining API request budget for the configured token.",
				"inputSchema": map[string]interface{}{
					"type":       "object",
					"properties": map[string]interface{}{},
				},
			},
		},
	}
}

func (s *Server) callTool(params json.RawMessage) (interface{}, interface{}) {
	var call struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if err := json.Unmarshal(params, &call); err != nil {
		return nil, map[string]interface{}{"code": -32602, "message": "Invalid params"}
	}

	if call.Name == "get_rate_limit" {
		rl, err := s.client.GetRateLimit()
		if err != nil {
			return nil, map[string]interface{}{"code": -32000, "message": err.Error()}
		}
		return textResult(s.formatResult(rl)), nil
	}

	number, ok := call.Arguments["number"].(float64)
	if !ok {
		return nil, map[string]interface{}{"code": -32602, "message": "number is required"}
	}

	includePull := false
	if raw, ok := call.Arguments["pull_request"].(bool); ok {
		includePull = raw
	}

	wrapper, err := s.buildHistory(int(number), includePull)
	if err != nil {
		return nil, map[string]interface{}{"code": -32000, "message": err.Error()}
	}
	h := wrapper.History()

	var data interface{}
	switch call.Name {
	case "get_issue_history":
		data = h.Events()
	case "has_commented":
		username, _ := call.Arguments["username"].(string)
		data = h.HasCommented(username)
	case "last_commented_at":
		username, _ := call.Arguments["username"].(string)
		last := h.LastCommentedAt(username)
		if last.IsZero() {
			data = ""
		} else {
			data = last.Format(time.RFC3339)
		}
	case "get_commands":
		username, _ := call.Arguments["username"].(string)
		rawKeys, _ := call.Arguments["command_keys"].([]interface{})
		keys := make([]string, 0, len(rawKeys))
		for _, k := range rawKeys {
			if key, ok := k.(string); ok {
				keys = append(keys, key)
			}
		}
		data = h.GetCommands(username, keys, true, s.cfg.BotName)
	case "get_changed_labels":
		prefix, _ := call.Arguments["prefix"].(string)
		data = h.GetChangedLabels(prefix)
	case "label_is_waffling":
		label, _ := call.Arguments["label"].(string)
		limit := 20
		if raw, ok := call.Arguments["limit"].(float64); ok {
			limit = int(raw)
		}
		data = h.LabelIsWaffling(label, limit)
	case "get_boilerplate_comments":
		botName, _ := call.Arguments["bot_name"].(string)
		if botName == "" {
			botName = s.cfg.BotName
		}
		data = h.BoilerplateComments(botName)
	default:
		return nil, map[string]interface{}{"code": -32601, "message": "Tool not found"}
	}

	return textResult(s.formatResult(data)), nil
}

func textResult(text string) interface{} {
	return map[string]interface{}{
		"content": []interface{}{
			map[string]interface{}{
				"type": "text",
				"text": text,
			},
		},
	}
}

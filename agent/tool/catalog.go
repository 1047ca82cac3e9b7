package tool

import (
	"fmt"
	"sort"

	"github.com/cloudwego/eino/schema"
)

// Definition describes one tool for the call provider.
type Definition struct {
	Info *schema.ToolInfo

	// params is kept alongside Info because ParamsOneOf does not expose them.
	params map[string]*schema.ParameterInfo

	RequestStart  string
	RequestFailed string
}

func (d Definition) Name() Name {
	return Name(d.Info.Name)
}

var searchMapsParams = map[string]*schema.ParameterInfo{
	"query": {
		Type:     schema.String,
		Desc:     "What to search for, for example \"vegetarian lunch\" or \"bookstore\".",
		Required: true,
	},
	"location": {
		Type:     schema.String,
		Desc:     "Where to search: a city, neighborhood, or \"latitude,longitude\". Leave empty to use the caller's saved city.",
		Required: true,
	},
	"radius": {
		Type: schema.Number,
		Desc: "Search radius in meters around a latitude,longitude location.",
	},
}

var placeRefParams = map[string]*schema.ParameterInfo{
	"placeNumber": {
		Type: schema.Integer,
		Desc: "Position of the place in the most recent search results, starting at 1.",
	},
	"placeName": {
		Type: schema.String,
		Desc: "Name of the place as the caller said it.",
	},
	"placeAddress": {
		Type: schema.String,
		Desc: "Street address of the place, when known.",
	},
	"placeId": {
		Type: schema.String,
		Desc: "Google place ID, when known from a search result.",
	},
}

var definitions = map[Name]Definition{
	SearchMaps: {
		Info: &schema.ToolInfo{
			Name: string(SearchMaps),
			Desc: "Search Google Maps for places matching the caller's request.",
		},
		params:        searchMapsParams,
		RequestStart:  "Give me a moment to search the map for you.",
		RequestFailed: "Hmm, I couldn't find any places matching your search. Would you like to try a different search?",
	},
	SendDirections: {
		Info: &schema.ToolInfo{
			Name: string(SendDirections),
			Desc: "Text the caller directions to a place from the recent search results.",
		},
		params:        placeRefParams,
		RequestStart:  "Sending that to your phone now.",
		RequestFailed: "I couldn't send the directions. Please try again in a moment.",
	},
	GetPlaceDetails: {
		Info: &schema.ToolInfo{
			Name: string(GetPlaceDetails),
			Desc: "Look up address, phone number, rating, opening hours, and website for a place.",
		},
		params:        placeRefParams,
		RequestStart:  "Let me pull up the details.",
		RequestFailed: "I couldn't get the details for that place right now.",
	},
	UpdateProfile: {
		Info: &schema.ToolInfo{
			Name: string(UpdateProfile),
			Desc: "Save the caller's name, age, or home city. Send only the fields the caller gave.",
		},
		params: map[string]*schema.ParameterInfo{
			"name": {Type: schema.String, Desc: "The caller's name."},
			"age":  {Type: schema.Integer, Desc: "The caller's age in years."},
			"city": {Type: schema.String, Desc: "The caller's home city."},
		},
		RequestStart:  "Updating your profile.",
		RequestFailed: "I couldn't update your profile right now.",
	},
	UpdatePreferences: {
		Info: &schema.ToolInfo{
			Name: string(UpdatePreferences),
			Desc: "Add, remove, or replace the caller's saved preferences in one category.",
		},
		params: map[string]*schema.ParameterInfo{
			"preferenceType": {
				Type:     schema.String,
				Desc:     "Which preference list to change.",
				Enum:     []string{"food", "activities", "shopping", "entertainment"},
				Required: true,
			},
			"action": {
				Type:     schema.String,
				Desc:     "add appends new items, remove deletes matching items, replace overwrites the whole list.",
				Enum:     []string{"add", "remove", "replace"},
				Required: true,
			},
			"preferences": {
				Type:     schema.Array,
				Desc:     "The preference values, for example [\"vegetarian\", \"outdoor seating\"].",
				ElemInfo: &schema.ParameterInfo{Type: schema.String},
				Required: true,
			},
		},
		RequestStart:  "Updating your preferences.",
		RequestFailed: "I couldn't update your preferences right now.",
	},
	GetProfile: {
		Info: &schema.ToolInfo{
			Name: string(GetProfile),
			Desc: "Read back everything saved in the caller's profile.",
		},
		params:        map[string]*schema.ParameterInfo{},
		RequestStart:  "Let me check your profile.",
		RequestFailed: "I couldn't read your profile right now.",
	},
	CreateReview: {
		Info: &schema.ToolInfo{
			Name: string(CreateReview),
			Desc: "Save the caller's review of a place.",
		},
		params: map[string]*schema.ParameterInfo{
			"placeId": {Type: schema.String, Desc: "Google place ID from a search result.", Required: true},
			"comment": {Type: schema.String, Desc: "The caller's review in their own words.", Required: true},
			"rating":  {Type: schema.Integer, Desc: "Whole-number rating from 1 to 5 stars.", Required: true},
		},
		RequestStart:  "Saving your review.",
		RequestFailed: "I couldn't save your review right now.",
	},
	SearchReviews: {
		Info: &schema.ToolInfo{
			Name: string(SearchReviews),
			Desc: "Read the reviews other callers left for a place.",
		},
		params: map[string]*schema.ParameterInfo{
			"placeId":   {Type: schema.String, Desc: "Google place ID from a search result.", Required: true},
			"placeName": {Type: schema.String, Desc: "Name of the place, used when speaking the results."},
		},
		RequestStart:  "Let me look up the reviews.",
		RequestFailed: "I couldn't look up reviews right now.",
	},
}

func init() {
	for name, def := range definitions {
		def.Info.ParamsOneOf = schema.NewParamsOneOfByParams(def.params)
		definitions[name] = def
	}
}

// DefinitionFor returns the definition of a known tool.
func DefinitionFor(name Name) (Definition, error) {
	def, ok := definitions[name]
	if !ok {
		return Definition{}, fmt.Errorf("no definition for tool %q", name)
	}
	return def, nil
}

// Infos returns the eino tool infos for names, in order.
func Infos(names ...Name) ([]*schema.ToolInfo, error) {
	out := make([]*schema.ToolInfo, 0, len(names))
	for _, n := range names {
		def, err := DefinitionFor(n)
		if err != nil {
			return nil, err
		}
		out = append(out, def.Info)
	}
	return out, nil
}

// FunctionParameters is the JSON schema object sent as function.parameters.
type FunctionParameters struct {
	Type       string                   `json:"type"`
	Properties map[string]*JSONProperty `json:"properties"`
	Required   []string                 `json:"required,omitempty"`
}

type JSONProperty struct {
	Type        string                   `json:"type"`
	Description string                   `json:"description,omitempty"`
	Enum        []string                 `json:"enum,omitempty"`
	Items       *JSONProperty            `json:"items,omitempty"`
	Properties  map[string]*JSONProperty `json:"properties,omitempty"`
	Required    []string                 `json:"required,omitempty"`
}

// Parameters renders the definition's parameters as a JSON schema object.
func (d Definition) Parameters() FunctionParameters {
	props, required := convertParams(d.params)
	return FunctionParameters{Type: string(schema.Object), Properties: props, Required: required}
}

func convertParams(params map[string]*schema.ParameterInfo) (map[string]*JSONProperty, []string) {
	props := make(map[string]*JSONProperty, len(params))
	var required []string
	for key, p := range params {
		if p == nil {
			continue
		}
		props[key] = convertParam(p)
		if p.Required {
			required = append(required, key)
		}
	}
	sort.Strings(required)
	return props, required
}

func convertParam(p *schema.ParameterInfo) *JSONProperty {
	out := &JSONProperty{
		Type:        string(p.Type),
		Description: p.Desc,
		Enum:        p.Enum,
	}
	if p.ElemInfo != nil {
		out.Items = convertParam(p.ElemInfo)
	}
	if len(p.SubParams) > 0 {
		out.Properties, out.Required = convertParams(p.SubParams)
	}
	return out
}

package generation

import (
	"fmt"

	"newsroom-ai-api/internal/domain/entity"
)

// MergeMode 配置合并模式
type MergeMode string

const (
	MergeModeReplace MergeMode = "replace"
	MergeModeMerge   MergeMode = "merge"
	MergeModeCombine MergeMode = "combine"
)

// Override 标量冲突记录，渠道值生效但双方取值都保留
type Override struct {
	Style   any `json:"style"`
	Channel any `json:"channel"`
}

// MergeMetadata 合并过程的来源与冲突信息，路径以 "/" 连接
type MergeMetadata struct {
	Overrides map[string]Override `json:"overrides"`
	SourceMap map[string]string   `json:"source_map"` // style / channel / combined_list
}

// MergeResult 有效配置及其合并元数据
type MergeResult struct {
	Merged   map[string]any `json:"merged"`
	Metadata MergeMetadata  `json:"metadata"`
}

// ConfigMerger 合并风格指令映射与渠道配置映射
type ConfigMerger struct{}

// NewConfigMerger 创建配置合并器
func NewConfigMerger() *ConfigMerger {
	return &ConfigMerger{}
}

// Merge 按渠道配置中的 merge_mode 合并两份自由格式配置
// max_characters 为渠道独占键：渠道未设置时即使风格带有该键也不出现在结果中。
// 未知的 merge_mode 取值按 merge 处理
func (m *ConfigMerger) Merge(styleCfg, channelCfg map[string]any) *MergeResult {
	result := &MergeResult{
		Merged: make(map[string]any),
		Metadata: MergeMetadata{
			Overrides: make(map[string]Override),
			SourceMap: make(map[string]string),
		},
	}

	mode := MergeModeMerge
	if raw, ok := channelCfg[entity.ConfigKeyMergeMode]; ok {
		switch MergeMode(fmt.Sprintf("%v", raw)) {
		case MergeModeReplace:
			mode = MergeModeReplace
		case MergeModeCombine:
			mode = MergeModeCombine
		}
	}

	switch mode {
	case MergeModeReplace:
		for key, value := range channelCfg {
			if key == entity.ConfigKeyMergeMode {
				continue
			}
			result.Merged[key] = value
			result.Metadata.SourceMap[key] = "channel"
		}
	case MergeModeCombine:
		result.Merged = combineMaps(styleCfg, channelCfg, "", &result.Metadata, true)
		enforceMaxCharsExclusivity(result, channelCfg)
	default:
		for key, value := range styleCfg {
			result.Merged[key] = value
			result.Metadata.SourceMap[key] = "style"
		}
		for key, value := range channelCfg {
			if key == entity.ConfigKeyMergeMode {
				continue
			}
			result.Merged[key] = value
			result.Metadata.SourceMap[key] = "channel"
		}
		enforceMaxCharsExclusivity(result, channelCfg)
	}

	return result
}

// enforceMaxCharsExclusivity 渠道未设置 max_characters 时从结果中剔除
func enforceMaxCharsExclusivity(result *MergeResult, channelCfg map[string]any) {
	if _, ok := channelCfg[entity.ConfigKeyMaxCharacters]; ok {
		return
	}
	delete(result.Merged, entity.ConfigKeyMaxCharacters)
	delete(result.Metadata.SourceMap, entity.ConfigKeyMaxCharacters)
}

// combineMaps 深合并：嵌套映射逐键递归，列表拼接去重，标量冲突渠道胜出并记录
func combineMaps(styleMap, channelMap map[string]any, path string, meta *MergeMetadata, topLevel bool) map[string]any {
	out := make(map[string]any, len(styleMap)+len(channelMap))

	for key, styleVal := range styleMap {
		if _, inChannel := channelMap[key]; inChannel {
			continue
		}
		out[key] = styleVal
		meta.SourceMap[joinPath(path, key)] = "style"
	}

	for key, channelVal := range channelMap {
		if topLevel && key == entity.ConfigKeyMergeMode {
			continue
		}
		keyPath := joinPath(path, key)

		styleVal, inStyle := styleMap[key]
		if !inStyle {
			out[key] = channelVal
			meta.SourceMap[keyPath] = "channel"
			continue
		}

		styleNested, styleIsMap := styleVal.(map[string]any)
		channelNested, channelIsMap := channelVal.(map[string]any)
		if styleIsMap && channelIsMap {
			out[key] = combineMaps(styleNested, channelNested, keyPath, meta, false)
			continue
		}

		styleList, styleIsList := toList(styleVal)
		channelList, channelIsList := toList(channelVal)
		if styleIsList && channelIsList {
			out[key] = dedupConcat(styleList, channelList)
			meta.SourceMap[keyPath] = "combined_list"
			continue
		}

		// 标量冲突：渠道值生效，双方取值进入元数据
		out[key] = channelVal
		meta.SourceMap[keyPath] = "channel"
		meta.Overrides[keyPath] = Override{Style: styleVal, Channel: channelVal}
	}

	return out
}

// joinPath 拼接配置键路径
func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "/" + key
}

// toList 识别列表值
func toList(v any) ([]any, bool) {
	list, ok := v.([]any)
	return list, ok
}

// dedupConcat 拼接两个列表并按首次出现顺序去重
func dedupConcat(first, second []any) []any {
	out := make([]any, 0, len(first)+len(second))
	seen := make(map[string]struct{}, len(first)+len(second))
	for _, item := range append(append([]any{}, first...), second...) {
		key := fmt.Sprintf("%v", item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

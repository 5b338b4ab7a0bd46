package answer

// systemPromptTemplate frames the model as a page assistant. The numbered
// sources block is appended at the end; the marker instruction must match
// the format the citation parser accepts.
const systemPromptTemplate = `You are a helpful assistant answering questions about the web page the user is currently reading.

Answer using only the numbered sources below. Keep answers concise. After each claim, cite the supporting sources with bracketed numbers, e.g. [1] or [1,2]. If the sources do not contain the answer, say so plainly.

Sources:
%s`

// summaryPrompt is the fixed instruction used when compacting conversation
// history. Output length is bounded by summaryMaxTokens.
const summaryPrompt = `Summarize the following conversation in at most two short paragraphs. Preserve the questions asked, the key facts established, and any decisions made, so the conversation can continue naturally from the summary.

Conversation:
%s`

const summaryMaxTokens = 512

package builtin

// lexiconEntry is the prior polarity and subjectivity of a word.
type lexiconEntry struct {
	polarity     float64
	subjectivity float64
}

// sentimentLexicon is tuned for support conversations: product praise,
// frustration and breakage vocabulary. Words are lowercase.
var sentimentLexicon = map[string]lexiconEntry{
	// praise
	"amazing":    {0.6, 0.9},
	"appreciate": {0.3, 0.5},
	"awesome":    {1.0, 1.0},
	"best":       {1.0, 0.3},
	"better":     {0.5, 0.5},
	"easy":       {0.43, 0.83},
	"enjoy":      {0.4, 0.5},
	"excellent":  {1.0, 1.0},
	"fantastic":  {0.4, 0.9},
	"fast":       {0.2, 0.6},
	"fixed":      {0.1, 0.1},
	"friendly":   {0.4, 0.6},
	"glad":       {0.5, 1.0},
	"good":       {0.7, 0.6},
	"great":      {0.8, 0.75},
	"happy":      {0.8, 1.0},
	"helpful":    {0.4, 0.5},
	"impressive": {1.0, 1.0},
	"love":       {0.5, 0.6},
	"nice":       {0.6, 1.0},
	"perfect":    {1.0, 1.0},
	"perfectly":  {1.0, 1.0},
	"pleased":    {0.5, 1.0},
	"quick":      {0.33, 0.5},
	"reliable":   {0.4, 0.5},
	"resolved":   {0.2, 0.3},
	"satisfied":  {0.5, 0.7},
	"smooth":     {0.4, 0.7},
	"thank":      {0.2, 0.2},
	"thanks":     {0.2, 0.2},
	"wonderful":  {1.0, 1.0},
	"working":    {0.3, 0.4},

	// frustration and breakage
	"angry":         {-0.5, 1.0},
	"annoyed":       {-0.5, 0.8},
	"annoying":      {-0.8, 0.9},
	"awful":         {-1.0, 1.0},
	"bad":           {-0.7, 0.67},
	"broken":        {-0.4, 0.4},
	"confused":      {-0.4, 0.7},
	"confusing":     {-0.4, 0.7},
	"crash":         {-0.3, 0.4},
	"crashed":       {-0.3, 0.4},
	"crashing":      {-0.3, 0.4},
	"difficult":     {-0.5, 1.0},
	"disappointed":  {-0.75, 0.75},
	"disappointing": {-0.6, 0.7},
	"fail":          {-0.5, 0.5},
	"failed":        {-0.5, 0.6},
	"failure":       {-0.3, 0.3},
	"frustrated":    {-0.7, 0.8},
	"frustrating":   {-0.6, 0.8},
	"hate":          {-0.8, 0.9},
	"horrible":      {-1.0, 1.0},
	"impossible":    {-0.67, 1.0},
	"locked":        {-0.1, 0.3},
	"lost":          {-0.2, 0.3},
	"missing":       {-0.2, 0.1},
	"poor":          {-0.4, 0.6},
	"problem":       {-0.2, 0.3},
	"ridiculous":    {-0.33, 1.0},
	"sad":           {-0.5, 1.0},
	"slow":          {-0.3, 0.4},
	"stuck":         {-0.3, 0.5},
	"terrible":      {-1.0, 1.0},
	"unable":        {-0.5, 0.5},
	"unacceptable":  {-0.6, 0.8},
	"unhappy":       {-0.6, 0.9},
	"upset":         {-0.5, 0.7},
	"useless":       {-0.5, 0.2},
	"waste":         {-0.4, 0.6},
	"worst":         {-1.0, 1.0},
	"wrong":         {-0.5, 0.9},
}

// negationWords flip the next sentiment terms within negationWindow tokens.
// Any token ending in "n't" also negates.
var negationWords = map[string]bool{
	"cannot":  true,
	"hardly":  true,
	"neither": true,
	"never":   true,
	"no":      true,
	"nobody":  true,
	"none":    true,
	"nor":     true,
	"not":     true,
	"nothing": true,
	"without": true,
}

// intensifiers scale the term that directly follows them.
var intensifiers = map[string]bool{
	"absolutely": true,
	"completely": true,
	"extremely":  true,
	"highly":     true,
	"incredibly": true,
	"quite":      true,
	"really":     true,
	"so":         true,
	"super":      true,
	"too":        true,
	"totally":    true,
	"very":       true,
}

const negationWindow = 3

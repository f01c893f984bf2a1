package abi

// RouterABI covers SwapRouter02 together with its payments, multicall,
// self-permit and approve-and-call extensions
const RouterABI = `[
	{"inputs":[{"name":"amountIn","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"}],"name":"swapExactTokensForTokens","outputs":[{"name":"amountOut","type":"uint256"}],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"amountOut","type":"uint256"},{"name":"amountInMax","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"}],"name":"swapTokensForExactTokens","outputs":[{"name":"amountIn","type":"uint256"}],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"params","type":"tuple","components":[{"name":"tokenIn","type":"address"},{"name":"tokenOut","type":"address"},{"name":"fee","type":"uint24"},{"name":"recipient","type":"address"},{"name":"amountIn","type":"uint256"},{"name":"amountOutMinimum","type":"uint256"},{"name":"sqrtPriceLimitX96","type":"uint160"}]}],"name":"exactInputSingle","outputs":[{"name":"amountOut","type":"uint256"}],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"params","type":"tuple","components":[{"name":"tokenIn","type":"address"},{"name":"tokenOut","type":"address"},{"name":"fee","type":"uint24"},{"name":"recipient","type":"address"},{"name":"amountOut","type":"uint256"},{"name":"amountInMaximum","type":"uint256"},{"name":"sqrtPriceLimitX96","type":"uint160"}]}],"name":"exactOutputSingle","outputs":[{"name":"amountIn","type":"uint256"}],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"params","type":"tuple","components":[{"name":"path","type":"bytes"},{"name":"recipient","type":"address"},{"name":"amountIn","type":"uint256"},{"name":"amountOutMinimum","type":"uint256"}]}],"name":"exactInput","outputs":[{"name":"amountOut","type":"uint256"}],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"params","type":"tuple","components":[{"name":"path","type":"bytes"},{"name":"recipient","type":"address"},{"name":"amountOut","type":"uint256"},{"name":"amountInMaximum","type":"uint256"}]}],"name":"exactOutput","outputs":[{"name":"amountIn","type":"uint256"}],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"amountMinimum","type":"uint256"}],"name":"unwrapWETH9","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"amountMinimum","type":"uint256"},{"name":"recipient","type":"address"}],"name":"unwrapWETH9","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"amountMinimum","type":"uint256"},{"name":"feeBips","type":"uint256"},{"name":"feeRecipient","type":"address"}],"name":"unwrapWETH9WithFee","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"amountMinimum","type":"uint256"},{"name":"recipient","type":"address"},{"name":"feeBips","type":"uint256"},{"name":"feeRecipient","type":"address"}],"name":"unwrapWETH9WithFee","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"token","type":"address"},{"name":"amountMinimum","type":"uint256"}],"name":"sweepToken","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"token","type":"address"},{"name":"amountMinimum","type":"uint256"},{"name":"recipient","type":"address"}],"name":"sweepToken","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"token","type":"address"},{"name":"amountMinimum","type":"uint256"},{"name":"feeBips","type":"uint256"},{"name":"feeRecipient","type":"address"}],"name":"sweepTokenWithFee","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"token","type":"address"},{"name":"amountMinimum","type":"uint256"},{"name":"recipient","type":"address"},{"name":"feeBips","type":"uint256"},{"name":"feeRecipient","type":"address"}],"name":"sweepTokenWithFee","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"token","type":"address"},{"name":"value","type":"uint256"}],"name":"pull","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"value","type":"uint256"}],"name":"wrapETH","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[],"name":"refundETH","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"token","type":"address"},{"name":"value","type":"uint256"},{"name":"deadline","type":"uint256"},{"name":"v","type":"uint8"},{"name":"r","type":"bytes32"},{"name":"s","type":"bytes32"}],"name":"selfPermit","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"token","type":"address"},{"name":"nonce","type":"uint256"},{"name":"expiry","type":"uint256"},{"name":"v","type":"uint8"},{"name":"r","type":"bytes32"},{"name":"s","type":"bytes32"}],"name":"selfPermitAllowed","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"data","type":"bytes[]"}],"name":"multicall","outputs":[{"name":"results","type":"bytes[]"}],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"deadline","type":"uint256"},{"name":"data","type":"bytes[]"}],"name":"multicall","outputs":[{"name":"","type":"bytes[]"}],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"previousBlockhash","type":"bytes32"},{"name":"data","type":"bytes[]"}],"name":"multicall","outputs":[{"name":"","type":"bytes[]"}],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"token","type":"address"}],"name":"approveMax","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"token","type":"address"}],"name":"approveMaxMinusOne","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"token","type":"address"}],"name":"approveZeroThenMax","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"token","type":"address"}],"name":"approveZeroThenMaxMinusOne","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"data","type":"bytes"}],"name":"callPositionManager","outputs":[{"name":"result","type":"bytes"}],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"params","type":"tuple","components":[{"name":"token0","type":"address"},{"name":"token1","type":"address"},{"name":"fee","type":"uint24"},{"name":"tickLower","type":"int24"},{"name":"tickUpper","type":"int24"},{"name":"amount0Min","type":"uint256"},{"name":"amount1Min","type":"uint256"},{"name":"recipient","type":"address"}]}],"name":"mint","outputs":[{"name":"result","type":"bytes"}],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"params","type":"tuple","components":[{"name":"token0","type":"address"},{"name":"token1","type":"address"},{"name":"amount0Min","type":"uint256"},{"name":"amount1Min","type":"uint256"},{"name":"tokenId","type":"uint256"}]}],"name":"increaseLiquidity","outputs":[{"name":"result","type":"bytes"}],"stateMutability":"payable","type":"function"}
]`
